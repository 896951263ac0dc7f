package service

import (
	"context"
	"strings"

	"github.com/geoledger/countrysync/internal/country/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultLimit = 500

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("country.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Country, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	sort := strings.TrimSpace(req.Sort)
	if sort != domain.SortGDPDesc && sort != domain.SortGDPAsc {
		// Unknown sort values fall back to default order.
		sort = ""
	}

	return s.repo.List(ctx, s.db, domain.ListFilter{
		Region:   strings.TrimSpace(req.Region),
		Currency: strings.TrimSpace(req.Currency),
		Sort:     sort,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Country, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Country{}, domain.ErrInvalidName
	}

	record, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return domain.Country{}, err
	}
	if record == nil {
		return domain.Country{}, domain.ErrNotFound
	}
	return *record, nil
}

func (s *Service) DeleteByName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidName
	}

	affected, err := s.repo.DeleteByName(ctx, s.db, name)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.log.Info("country deleted", zap.String("name", name))
	return nil
}

func (s *Service) Status(ctx context.Context) (domain.StatusResponse, error) {
	total, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return domain.StatusResponse{}, err
	}

	last, err := s.repo.LastRefreshedAt(ctx, s.db)
	if err != nil {
		return domain.StatusResponse{}, err
	}

	return domain.StatusResponse{
		TotalCountries:  total,
		LastRefreshedAt: last,
	}, nil
}
