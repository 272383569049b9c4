package sdk

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Classification outcomes, matching the service's attempt events.
const (
	outcomeClassified   = "classified"
	outcomeInvalidInput = "invalid_input"
	outcomeUnavailable  = "unavailable"
	outcomeError        = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeClassified
	case errors.Is(err, ErrInvalidInput):
		return outcomeInvalidInput
	case errors.Is(err, ErrClassifierUnavailable):
		return outcomeUnavailable
	default:
		return outcomeError
	}
}

type sdkMetrics struct {
	classifications *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	confidence      *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewguard",
			Subsystem: "sdk",
			Name:      "classifications_total",
			Help:      "In-process classifications by backend, outcome and label.",
		}, []string{"backend", "outcome", "label"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Subsystem: "sdk",
			Name:      "classification_duration_seconds",
			Help:      "In-process classification latency by backend.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"backend"}),
		confidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Subsystem: "sdk",
			Name:      "verdict_confidence",
			Help:      "Confidence of in-process verdicts by label.",
			Buckets:   []float64{0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99, 1},
		}, []string{"label"}),
	}
	if err := registerOrReuse(reg, &m.classifications); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.confidence); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or swaps in the identical collector another
// Client already registered on reg.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("reviewguard: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("reviewguard: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer records one line and one set of samples per Classify call.
// The review text is never logged.
type observer struct {
	backend string
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(backend string, logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{backend: backend, logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) classified(start time.Time, v Verdict, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	outcome := outcomeOf(err)

	if o.metrics != nil {
		label := "none"
		if err == nil {
			label = string(v.Label)
			o.metrics.confidence.WithLabelValues(label).Observe(v.Confidence)
		}
		o.metrics.classifications.WithLabelValues(o.backend, outcome, label).Inc()
		o.metrics.latency.WithLabelValues(o.backend).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("classification failed",
			"backend", o.backend,
			"outcome", outcome,
			"duration", dur,
			"error", err,
		)
		return
	}
	o.logger.Debug("review classified",
		"backend", o.backend,
		"label", string(v.Label),
		"confidence", v.Confidence,
		"duration", dur,
	)
}
