package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/geoledger/countrysync/internal/config"
	"golang.org/x/sync/errgroup"
)

// UpstreamError marks a failed outbound fetch and names the source, so the
// handler can answer 503 instead of a generic 500.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ratesEnvelope matches the exchange-rate source payload. Values decode as
// bare interface so one malformed rate never fails the whole payload.
type ratesEnvelope struct {
	Rates map[string]any `json:"rates"`
}

// Fetcher issues the two upstream reads for a refresh pass.
type Fetcher struct {
	client       *http.Client
	countriesURL string
	ratesURL     string
}

func NewFetcher(cfg config.Config) *Fetcher {
	return &Fetcher{
		client:       &http.Client{Timeout: cfg.RefreshTimeout},
		countriesURL: cfg.CountriesAPI,
		ratesURL:     cfg.ExchangeAPI,
	}
}

// Fetch runs both GETs concurrently and joins them. The first failure cancels
// the sibling via the group context; both payloads are required before
// normalization begins. Rates whose values are not numeric are dropped.
func (f *Fetcher) Fetch(ctx context.Context) ([]UpstreamCountry, map[string]float64, error) {
	var (
		countries []UpstreamCountry
		envelope  ratesEnvelope
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := f.getJSON(gctx, f.countriesURL, &countries); err != nil {
			return &UpstreamError{Source: "countries", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := f.getJSON(gctx, f.ratesURL, &envelope); err != nil {
			return &UpstreamError{Source: "exchange_rates", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	rates := make(map[string]float64, len(envelope.Rates))
	for code, raw := range envelope.Rates {
		if value, ok := raw.(float64); ok {
			rates[code] = value
		}
	}

	return countries, rates, nil
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
