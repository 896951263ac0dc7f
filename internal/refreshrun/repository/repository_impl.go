package repository

import (
	"context"

	"github.com/geoledger/countrysync/internal/refreshrun/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, run *domain.RefreshRun) error {
	return db.WithContext(ctx).Create(run).Error
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.RefreshRun, error) {
	runs := make([]domain.RefreshRun, 0, limit)
	err := db.WithContext(ctx).
		Model(&domain.RefreshRun{}).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
