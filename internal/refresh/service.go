package refresh

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geoledger/countrysync/internal/clock"
	"github.com/geoledger/countrysync/internal/config"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
	obsmetrics "github.com/geoledger/countrysync/internal/observability/metrics"
	refreshrundomain "github.com/geoledger/countrysync/internal/refreshrun/domain"
	"github.com/geoledger/countrysync/internal/summary"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sources abstracts the two upstream fetches so tests can substitute fakes.
type Sources interface {
	Fetch(ctx context.Context) ([]UpstreamCountry, map[string]float64, error)
}

// Result is the aggregate returned to the refresh caller.
type Result struct {
	Processed       int
	TotalCountries  int64
	LastRefreshedAt *time.Time
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	GenID     *snowflake.Node
	Sources   Sources
	Estimator *Estimator
	Countries countrydomain.Repository
	Runs      refreshrundomain.Repository
	Renderer  summary.Renderer
	Metrics   *obsmetrics.RefreshMetrics `optional:"true"`
}

// Service runs the full refresh pipeline:
// fetch -> normalize -> estimate -> reconcile -> aggregate -> render.
type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       config.Config
	clock     clock.Clock
	genID     *snowflake.Node
	sources   Sources
	estimator *Estimator
	countries countrydomain.Repository
	runs      refreshrundomain.Repository
	renderer  summary.Renderer
	metrics   *obsmetrics.RefreshMetrics
}

func New(p Params) *Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("refresh.service"),
		cfg:       p.Cfg,
		clock:     p.Clock,
		genID:     p.GenID,
		sources:   p.Sources,
		estimator: p.Estimator,
		countries: p.Countries,
		runs:      p.Runs,
		renderer:  p.Renderer,
		metrics:   p.Metrics,
	}
}

// Run executes one refresh pass. Both upstream fetches must succeed before
// any write happens; all writes land in a single transaction; the summary
// image is rendered after commit and never fails the pass. There are no
// retries; a failed refresh is re-triggered by the caller.
func (s *Service) Run(ctx context.Context) (Result, error) {
	started := s.clock.Now()

	entries, rates, err := s.sources.Fetch(ctx)
	if err != nil {
		s.log.Error("external fetch failed", zap.Error(err))
		s.finish(ctx, started, 0, err)
		return Result{}, err
	}

	now := s.clock.Now()
	records := s.buildRecords(entries, rates, now)

	processed := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := s.countries.Upsert(ctx, tx, &records[i]); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	if err != nil {
		s.log.Error("reconcile transaction rolled back", zap.Error(err), zap.Int("attempted", processed))
		s.finish(ctx, started, 0, err)
		return Result{}, err
	}

	total, err := s.countries.Count(ctx, s.db)
	if err != nil {
		s.finish(ctx, started, processed, err)
		return Result{}, err
	}
	last, err := s.countries.LastRefreshedAt(ctx, s.db)
	if err != nil {
		s.finish(ctx, started, processed, err)
		return Result{}, err
	}
	top, err := s.countries.TopByGDP(ctx, s.db, 5)
	if err != nil {
		s.finish(ctx, started, processed, err)
		return Result{}, err
	}

	s.renderSummary(total, top, last)
	s.finish(ctx, started, processed, nil)

	s.log.Info("refresh complete",
		zap.Int("processed", processed),
		zap.Int64("total_countries", total),
		zap.Int("skipped", len(entries)-processed),
	)

	return Result{
		Processed:       processed,
		TotalCountries:  total,
		LastRefreshedAt: last,
	}, nil
}

// RecentRuns lists the latest refresh pass outcomes, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]refreshrundomain.RefreshRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, s.db, limit)
}

func (s *Service) buildRecords(entries []UpstreamCountry, rates map[string]float64, now time.Time) []countrydomain.Country {
	records := make([]countrydomain.Country, 0, len(entries))
	for _, entry := range entries {
		normalized, ok := Normalize(entry)
		if !ok {
			continue
		}

		rate, gdp := s.estimator.Estimate(normalized.CurrencyCode, normalized.Population, rates)
		refreshedAt := now
		records = append(records, countrydomain.Country{
			Name:            normalized.Name,
			Capital:         normalized.Capital,
			Region:          normalized.Region,
			Population:      normalized.Population,
			CurrencyCode:    normalized.CurrencyCode,
			ExchangeRate:    rate,
			EstimatedGDP:    gdp,
			FlagURL:         normalized.FlagURL,
			LastRefreshedAt: &refreshedAt,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return records
}

// renderSummary is strictly best-effort: a rendering or filesystem error is
// logged and dropped, never surfaced to the refresh caller.
func (s *Service) renderSummary(total int64, top []countrydomain.Country, last *time.Time) {
	entries := make([]summary.Entry, 0, len(top))
	for _, record := range top {
		if record.EstimatedGDP == nil {
			continue
		}
		entries = append(entries, summary.Entry{
			Name:         record.Name,
			EstimatedGDP: *record.EstimatedGDP,
		})
	}

	data := summary.Data{
		TotalCountries: total,
		Top:            entries,
		Timestamp:      last,
	}
	if err := s.renderer.Render(data, s.cfg.SummaryImagePath()); err != nil {
		s.log.Warn("summary image generation failed", zap.Error(err))
	}
}

// finish records the pass outcome, best-effort, outside the reconcile
// transaction.
func (s *Service) finish(ctx context.Context, started time.Time, processed int, runErr error) {
	finished := s.clock.Now()

	status := refreshrundomain.StatusSucceeded
	var note *string
	if runErr != nil {
		status = refreshrundomain.StatusFailed
		msg := runErr.Error()
		note = &msg
	}

	run := refreshrundomain.RefreshRun{
		ID:         s.genID.Generate(),
		StartedAt:  started,
		FinishedAt: finished,
		Status:     status,
		Processed:  processed,
		Error:      note,
	}
	if err := s.runs.Insert(ctx, s.db, &run); err != nil {
		s.log.Warn("refresh run not recorded", zap.Error(err))
	}

	s.metrics.ObserveRun(status, processed, finished.Sub(started).Seconds())
}
