package repository

import (
	"context"
	"time"

	"github.com/geoledger/countrysync/internal/country/domain"
	pkgdb "github.com/geoledger/countrysync/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Country, error) {
	var country domain.Country
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Limit(1).
		Find(&country).Error
	if err != nil {
		return nil, err
	}
	if country.ID == 0 {
		return nil, nil
	}
	return &country, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Country, error) {
	countries := make([]domain.Country, 0)
	stmt := db.WithContext(ctx).Model(&domain.Country{})
	if filter.Region != "" {
		stmt = stmt.Where("LOWER(region) = LOWER(?)", filter.Region)
	}
	if filter.Currency != "" {
		stmt = stmt.Where("LOWER(currency_code) = LOWER(?)", filter.Currency)
	}
	switch filter.Sort {
	case domain.SortGDPDesc:
		stmt = stmt.Order("estimated_gdp DESC")
	case domain.SortGDPAsc:
		stmt = stmt.Order("estimated_gdp ASC")
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}
	if err := stmt.Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *repo) DeleteByName(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	result := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Delete(&domain.Country{})
	return result.RowsAffected, result.Error
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.Country) error {
	existing, err := r.FindByName(ctx, db, record.Name)
	if err != nil {
		return err
	}

	if existing == nil {
		createErr := db.WithContext(ctx).Create(record).Error
		if createErr == nil || !pkgdb.IsDuplicateKeyErr(createErr) {
			return createErr
		}
		// Lost a race with a concurrent insert on the name index; update
		// the row that won instead.
		if existing, err = r.FindByName(ctx, db, record.Name); err != nil {
			return err
		}
		if existing == nil {
			return createErr
		}
	}

	// Map-based update so NULL values overwrite stale ones; identity and
	// created_at stay untouched.
	return db.WithContext(ctx).
		Model(&domain.Country{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"capital":           record.Capital,
			"region":            record.Region,
			"population":        record.Population,
			"currency_code":     record.CurrencyCode,
			"exchange_rate":     record.ExchangeRate,
			"estimated_gdp":     record.EstimatedGDP,
			"flag_url":          record.FlagURL,
			"last_refreshed_at": record.LastRefreshedAt,
			"updated_at":        record.UpdatedAt,
		}).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Country{}).Count(&total).Error
	return total, err
}

func (r *repo) LastRefreshedAt(ctx context.Context, db *gorm.DB) (*time.Time, error) {
	var newest domain.Country
	err := db.WithContext(ctx).
		Where("last_refreshed_at IS NOT NULL").
		Order("last_refreshed_at DESC").
		Limit(1).
		Find(&newest).Error
	if err != nil {
		return nil, err
	}
	if newest.ID == 0 {
		return nil, nil
	}
	return newest.LastRefreshedAt, nil
}

func (r *repo) TopByGDP(ctx context.Context, db *gorm.DB, limit int) ([]domain.Country, error) {
	countries := make([]domain.Country, 0, limit)
	err := db.WithContext(ctx).
		Model(&domain.Country{}).
		Where("estimated_gdp IS NOT NULL AND estimated_gdp > 0").
		Order("estimated_gdp DESC, name ASC").
		Limit(limit).
		Find(&countries).Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}
