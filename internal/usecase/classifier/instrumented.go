package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/attempt"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/metrics"
)

// Instrumented wraps a Classifier with metrics and logging.
type Instrumented struct {
	inner   domain.Classifier
	backend string
	logger  *zap.Logger
}

// NewInstrumented wraps inner. logger may be nil.
func NewInstrumented(inner domain.Classifier, backend string, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{inner: inner, backend: backend, logger: logger}
}

// Backend returns the configured backend name.
func (p *Instrumented) Backend() string { return p.backend }

// Classify delegates to the inner classifier and records the outcome.
func (p *Instrumented) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	start := time.Now()

	res, err := p.inner.Classify(ctx, v)

	duration := time.Since(start)
	outcome := attempt.OutcomeOf(err)
	metrics.ClassificationDuration.WithLabelValues(p.backend).Observe(duration.Seconds())

	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues(p.backend, string(outcome), "").Inc()
		p.logger.Warn("Classification failed",
			zap.String("backend", p.backend),
			zap.String("outcome", string(outcome)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return verdict.Result{}, fmt.Errorf("classify: %w", err)
	}

	label := string(res.Label())
	metrics.ClassificationsTotal.WithLabelValues(p.backend, string(outcome), label).Inc()
	metrics.ClassificationConfidence.WithLabelValues(p.backend, label).Observe(res.Confidence())

	p.logger.Debug("Classification completed",
		zap.String("backend", p.backend),
		zap.String("label", label),
		zap.Float64("confidence", res.Confidence()),
		zap.Duration("duration", duration),
	)

	return res, nil
}

// HealthCheck delegates to the inner classifier when it supports health checks.
func (p *Instrumented) HealthCheck(ctx context.Context) error {
	return healthOf(ctx, p.inner)
}
