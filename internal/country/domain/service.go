package domain

import (
	"context"
	"errors"
	"time"
)

type ListRequest struct {
	Region   string
	Currency string
	Sort     string
	Page     int
	Limit    int
}

type StatusResponse struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Country, error)
	GetByName(ctx context.Context, name string) (Country, error)
	DeleteByName(ctx context.Context, name string) error
	Status(ctx context.Context) (StatusResponse, error)
}

var (
	ErrNotFound    = errors.New("country_not_found")
	ErrInvalidName = errors.New("invalid_name")
)
