package rate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Metrics are the rating engine's prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ratings         *prometheus.CounterVec
	matcherFailures prometheus.Counter
	duration        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabix",
			Name:      "ratings_total",
			Help:      "Rating requests by outcome.",
		}, []string{"outcome"}),
		matcherFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tabix",
			Name:      "matcher_failures_total",
			Help:      "Columns whose relational score fell back to 0 after a matcher failure.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tabix",
			Name:      "rating_duration_seconds",
			Help:      "Time to rate a table and select its subject column.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.ratings, m.matcherFailures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRating(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ratings.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) observeDiagnostics(diags []Diagnostic) {
	if m == nil {
		return
	}
	for _, d := range diags {
		if d.Signal == SignalRelational {
			m.matcherFailures.Inc()
		}
	}
}
