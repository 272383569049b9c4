package domain

import (
	"context"

	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Classifier is the shared decision contract between layers.
// Implementations must be deterministic for a given vector and must return
// ErrClassifierUnavailable instead of guessing when their backing model is unreachable.
type Classifier interface {
	Classify(ctx context.Context, v signal.Vector) (verdict.Result, error)
}

// HealthChecker verifies classifier backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
