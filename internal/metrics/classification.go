package metrics

import "github.com/prometheus/client_golang/prometheus"

// Classification Prometheus metrics.
var (
	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "classifications_total",
			Help:      "Total classification attempts by backend, outcome and label",
		},
		[]string{"backend", "outcome", "label"},
	)

	ClassificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Name:      "classification_duration_seconds",
			Help:      "Classification duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	ClassificationConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Name:      "classification_confidence",
			Help:      "Reported classifier confidence",
			Buckets:   []float64{0.5, 0.55, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		},
		[]string{"backend", "label"},
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "backend_requests_total",
			Help:      "Requests to remote classifier backends",
		},
		[]string{"backend", "status"},
	)

	VerdictCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "verdict_cache_total",
			Help:      "Verdict cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "reviewguard",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"operation"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "events_published_total",
			Help:      "Classification attempt events by publish status",
		},
		[]string{"status"},
	)
)

var classMetricsRegistered bool

// RegisterClassificationMetrics registers Prometheus classification metrics. Must be called once from main.
func RegisterClassificationMetrics() {
	if classMetricsRegistered {
		return
	}
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(ClassificationDuration)
	prometheus.MustRegister(ClassificationConfidence)
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(VerdictCacheTotal)
	prometheus.MustRegister(BreakerState)
	prometheus.MustRegister(EventsPublishedTotal)
	classMetricsRegistered = true
}
