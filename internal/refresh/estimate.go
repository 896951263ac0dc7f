package refresh

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	multiplierMin = 1000
	multiplierMax = 2000
)

// Estimator derives the pseudo GDP figure. The multiplier is redrawn on every
// call, so estimates are intentionally non-reproducible across refreshes; the
// random source is injected so tests can fix the seed.
type Estimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewEstimator() *Estimator {
	return NewEstimatorWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewEstimatorWithSource(src rand.Source) *Estimator {
	return &Estimator{rng: rand.New(src)}
}

// Estimate resolves the exchange rate for code and computes
// population × multiplier / rate. Both outputs are nil when no code resolved,
// the code is absent from the rates map, or the rate is unusable; a rate of
// exactly 0 yields a 0 estimate.
func (e *Estimator) Estimate(code *string, population int64, rates map[string]float64) (exchangeRate, estimatedGDP *float64) {
	if code == nil {
		return nil, nil
	}

	rate, ok := rates[strings.ToUpper(*code)]
	if !ok {
		return nil, nil
	}

	gdp := 0.0
	if rate != 0 {
		gdp = float64(population) * float64(e.multiplier()) / rate
	}
	return &rate, &gdp
}

func (e *Estimator) multiplier() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(multiplierMax-multiplierMin+1) + multiplierMin
}
