package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/resilience"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 2 * time.Second

// Guarded bounds every call to a remote classifier with a timeout and a circuit breaker.
type Guarded struct {
	inner     domain.Classifier
	exec      Executor
	operation string
	timeout   time.Duration
}

// NewGuarded wraps inner. timeout <= 0 falls back to DefaultTimeout.
func NewGuarded(inner domain.Classifier, exec Executor, backend string, timeout time.Duration) *Guarded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guarded{
		inner:     inner,
		exec:      exec,
		operation: "classify." + backend,
		timeout:   timeout,
	}
}

// Classify delegates to the inner classifier under the timeout and breaker.
// Deadlines, an open circuit and empty results all surface as
// domain.ErrClassifierUnavailable, never as a default verdict.
func (g *Guarded) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var res verdict.Result
	err := g.exec.Execute(ctx, g.operation, func(ctx context.Context) error {
		r, err := g.inner.Classify(ctx, v)
		if err != nil {
			return err //nolint:wrapcheck // wrapped below
		}
		if r.IsZero() {
			return domain.Unavailable(g.operation, errors.New("empty verdict"))
		}
		res = r
		return nil
	}, classifyFailure)

	switch {
	case err == nil:
		return res, nil
	case resilience.IsCircuitOpen(err):
		return verdict.Result{}, domain.Unavailable(g.operation+": circuit open", err)
	case errors.Is(err, context.DeadlineExceeded):
		return verdict.Result{}, domain.Unavailable(g.operation+": timeout", err)
	default:
		return verdict.Result{}, fmt.Errorf("%s: %w", g.operation, err)
	}
}

// HealthCheck delegates to the inner classifier when it supports health checks.
func (g *Guarded) HealthCheck(ctx context.Context) error {
	return healthOf(ctx, g.inner)
}

// classifyFailure counts backend outages against the breaker but not bad input.
func classifyFailure(err error) resilience.ErrorClassification {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, context.Canceled):
		return resilience.ErrorClassification{}
	case errors.Is(err, domain.ErrClassifierUnavailable), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

func healthOf(ctx context.Context, c domain.Classifier) error {
	hc, ok := c.(domain.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("classifier health: %w", err)
	}
	return nil
}
