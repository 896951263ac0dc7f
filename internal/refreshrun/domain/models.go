package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RefreshRun records the outcome of one refresh pass. Rows are written
// best-effort after the pass concludes, outside the reconcile transaction.
type RefreshRun struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time    `gorm:"not null" json:"started_at"`
	FinishedAt time.Time    `gorm:"not null" json:"finished_at"`
	Status     string       `gorm:"not null;size:16" json:"status"`
	Processed  int          `gorm:"not null;default:0" json:"processed"`
	Error      *string      `gorm:"type:text" json:"error,omitempty"`
}

func (RefreshRun) TableName() string {
	return "refresh_runs"
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, run *RefreshRun) error
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]RefreshRun, error)
}
