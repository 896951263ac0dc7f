package metrics

import "github.com/prometheus/client_golang/prometheus"

// RefreshMetrics tracks refresh pipeline outcomes.
type RefreshMetrics struct {
	runs      *prometheus.CounterVec
	processed prometheus.Counter
	duration  prometheus.Histogram
}

func NewRefreshMetrics() *RefreshMetrics {
	m := &RefreshMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "countrysync_refresh_total",
			Help: "Refresh runs by terminal status.",
		}, []string{"status"}),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "countrysync_refresh_countries_processed_total",
			Help: "Country records written across all refresh runs.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "countrysync_refresh_duration_seconds",
			Help:    "Wall time of full refresh runs.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
	}
	prometheus.MustRegister(m.runs, m.processed, m.duration)
	return m
}

func (m *RefreshMetrics) ObserveRun(status string, processed int, seconds float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.processed.Add(float64(processed))
	m.duration.Observe(seconds)
}
