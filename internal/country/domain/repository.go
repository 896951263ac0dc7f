package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows and orders a listing. Region and Currency are
// case-insensitive exact matches; Sort is one of the Sort* constants.
type ListFilter struct {
	Region   string
	Currency string
	Sort     string
	Offset   int
	Limit    int
}

const (
	SortGDPDesc = "gdp_desc"
	SortGDPAsc  = "gdp_asc"
)

// Repository operates on an explicit *gorm.DB so callers can pass either the
// shared handle or an open transaction.
type Repository interface {
	// FindByName matches name case-insensitively; nil when absent.
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Country, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Country, error)
	// DeleteByName returns the number of rows removed.
	DeleteByName(ctx context.Context, db *gorm.DB, name string) (int64, error)
	// Upsert inserts record or updates the row whose name matches
	// case-insensitively, preserving its identity and created_at.
	Upsert(ctx context.Context, db *gorm.DB, record *Country) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	LastRefreshedAt(ctx context.Context, db *gorm.DB) (*time.Time, error)
	// TopByGDP returns up to limit records with estimated_gdp > 0, descending,
	// ties broken by name.
	TopByGDP(ctx context.Context, db *gorm.DB, limit int) ([]Country, error)
}
