package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the alerting module.
type Metrics struct {
	// Alert events by condition type
	EventsEmitted *prometheus.CounterVec

	// Events suppressed by the dedup window
	EventsSuppressed prometheus.Counter

	// Full evaluator run latency
	CheckLatency prometheus.Histogram
}

// New creates a new Metrics instance with all alerting metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundline_alert_events_total",
			Help: "Alert events emitted, by condition type",
		}, []string{"condition"}),

		EventsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundline_alert_events_suppressed_total",
			Help: "Alert events suppressed by the dedup window",
		}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fundline_alert_check_duration_seconds",
			Help:    "Duration of a full alert rule evaluation run",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementEmitted records an emitted alert event.
func (m *Metrics) IncrementEmitted(condition string) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(condition).Inc()
	}
}

// IncrementSuppressed records a deduplicated event.
func (m *Metrics) IncrementSuppressed() {
	if m != nil {
		m.EventsSuppressed.Inc()
	}
}

// ObserveCheckLatency records the evaluator run duration.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
