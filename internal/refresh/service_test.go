package refresh

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geoledger/countrysync/internal/clock"
	"github.com/geoledger/countrysync/internal/config"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
	countryrepository "github.com/geoledger/countrysync/internal/country/repository"
	refreshrundomain "github.com/geoledger/countrysync/internal/refreshrun/domain"
	refreshrunrepository "github.com/geoledger/countrysync/internal/refreshrun/repository"
	"github.com/geoledger/countrysync/internal/summary"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSources struct {
	entries []UpstreamCountry
	rates   map[string]float64
	err     error
}

func (f *fakeSources) Fetch(ctx context.Context) ([]UpstreamCountry, map[string]float64, error) {
	_ = ctx
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.entries, f.rates, nil
}

type fakeRenderer struct {
	calls int
	last  summary.Data
	err   error
}

func (f *fakeRenderer) Render(data summary.Data, outPath string) error {
	_ = outPath
	f.calls++
	f.last = data
	return f.err
}

type failingCountryRepo struct {
	countrydomain.Repository

	failOn  int
	upserts int
}

func (r *failingCountryRepo) Upsert(ctx context.Context, db *gorm.DB, record *countrydomain.Country) error {
	r.upserts++
	if r.upserts == r.failOn {
		return errors.New("write rejected")
	}
	return r.Repository.Upsert(ctx, db, record)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "refresh_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&countrydomain.Country{}, &refreshrundomain.RefreshRun{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, sources Sources, renderer summary.Renderer, countries countrydomain.Repository) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	if countries == nil {
		countries = countryrepository.Provide()
	}
	return New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Cfg:       config.Config{CacheDir: t.TempDir()},
		Clock:     clock.NewFakeClock(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)),
		GenID:     node,
		Sources:   sources,
		Estimator: NewEstimatorWithSource(rand.NewSource(7)),
		Countries: countries,
		Runs:      refreshrunrepository.Provide(),
		Renderer:  renderer,
	})
}

func TestRunUpsertsAndAggregates(t *testing.T) {
	db := newTestDB(t)
	sources := &fakeSources{
		entries: []UpstreamCountry{
			decodeEntry(t, `{"name":"France","capital":["Paris"],"region":"Europe","population":1000000,"currencies":[{"code":"EUR"}],"flags":{"png":"https://cdn.example/fr.png"}}`),
			decodeEntry(t, `{"name":"Freedonia","region":"Nowhere","population":5000}`),
			decodeEntry(t, `{"population":12}`),
		},
		rates: map[string]float64{"EUR": 2.0},
	}
	renderer := &fakeRenderer{}
	svc := newTestService(t, db, sources, renderer, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The nameless entry is excluded, not an error.
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, int64(2), result.TotalCountries)
	require.NotNil(t, result.LastRefreshedAt)

	var france countrydomain.Country
	require.NoError(t, db.Where("name = ?", "France").First(&france).Error)
	require.NotNil(t, france.ExchangeRate)
	require.NotNil(t, france.EstimatedGDP)
	assert.Equal(t, 2.0, *france.ExchangeRate)
	assert.GreaterOrEqual(t, *france.EstimatedGDP, 500_000_000.0)
	assert.LessOrEqual(t, *france.EstimatedGDP, 1_000_000_000.0)
	require.NotNil(t, france.Capital)
	assert.Equal(t, "Paris", *france.Capital)

	var freedonia countrydomain.Country
	require.NoError(t, db.Where("name = ?", "Freedonia").First(&freedonia).Error)
	assert.Nil(t, freedonia.CurrencyCode)
	assert.Nil(t, freedonia.ExchangeRate)
	assert.Nil(t, freedonia.EstimatedGDP)

	// Renderer saw the committed aggregate; only positive-GDP rows rank.
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, int64(2), renderer.last.TotalCountries)
	require.Len(t, renderer.last.Top, 1)
	assert.Equal(t, "France", renderer.last.Top[0].Name)

	runs, err := svc.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, refreshrundomain.StatusSucceeded, runs[0].Status)
	assert.Equal(t, 2, runs[0].Processed)
}

func TestRunMatchesExistingNamesCaseInsensitively(t *testing.T) {
	db := newTestDB(t)
	renderer := &fakeRenderer{}

	first := &fakeSources{
		entries: []UpstreamCountry{decodeEntry(t, `{"name":"France","population":1000000}`)},
		rates:   map[string]float64{},
	}
	_, err := newTestService(t, db, first, renderer, nil).Run(context.Background())
	require.NoError(t, err)

	second := &fakeSources{
		entries: []UpstreamCountry{decodeEntry(t, `{"name":"FRANCE","population":2000000}`)},
		rates:   map[string]float64{},
	}
	_, err = newTestService(t, db, second, renderer, nil).Run(context.Background())
	require.NoError(t, err)

	var rows []countrydomain.Country
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	// The update keeps the originally stored name and identity.
	assert.Equal(t, "France", rows[0].Name)
	assert.Equal(t, int64(2000000), rows[0].Population)
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	db := newTestDB(t)
	sources := &fakeSources{err: &UpstreamError{Source: "exchange_rates", Err: errors.New("timeout")}}
	svc := newTestService(t, db, sources, &fakeRenderer{}, nil)

	_, err := svc.Run(context.Background())
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "exchange_rates", upstream.Source)

	var total int64
	require.NoError(t, db.Model(&countrydomain.Country{}).Count(&total).Error)
	assert.Zero(t, total)

	runs, err := svc.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, refreshrundomain.StatusFailed, runs[0].Status)
	require.NotNil(t, runs[0].Error)
}

func TestRunRollsBackWholePassOnPersistenceError(t *testing.T) {
	db := newTestDB(t)
	renderer := &fakeRenderer{}

	seed := &fakeSources{
		entries: []UpstreamCountry{decodeEntry(t, `{"name":"Brazil","population":1000}`)},
		rates:   map[string]float64{},
	}
	_, err := newTestService(t, db, seed, renderer, nil).Run(context.Background())
	require.NoError(t, err)

	failing := &failingCountryRepo{Repository: countryrepository.Provide(), failOn: 2}
	sources := &fakeSources{
		entries: []UpstreamCountry{
			decodeEntry(t, `{"name":"Brazil","population":9999}`),
			decodeEntry(t, `{"name":"Chile","population":500}`),
		},
		rates: map[string]float64{},
	}
	_, err = newTestService(t, db, sources, renderer, failing).Run(context.Background())
	require.Error(t, err)

	// The whole pass rolled back: Brazil keeps its prior value, Chile is absent.
	var brazil countrydomain.Country
	require.NoError(t, db.Where("name = ?", "Brazil").First(&brazil).Error)
	assert.Equal(t, int64(1000), brazil.Population)

	var total int64
	require.NoError(t, db.Model(&countrydomain.Country{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestRunRendererFailureIsNonFatal(t *testing.T) {
	db := newTestDB(t)
	sources := &fakeSources{
		entries: []UpstreamCountry{decodeEntry(t, `{"name":"France","population":1000000,"currencies":[{"code":"EUR"}]}`)},
		rates:   map[string]float64{"EUR": 1.0},
	}
	renderer := &fakeRenderer{err: errors.New("disk full")}
	svc := newTestService(t, db, sources, renderer, nil)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, renderer.calls)

	runs, err := svc.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, refreshrundomain.StatusSucceeded, runs[0].Status)
}
