package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// classifierAdapter exposes a caller Classifier as a domain.Classifier.
// Any failure of the caller model, including an out-of-range verdict,
// becomes ErrClassifierUnavailable.
type classifierAdapter struct {
	inner Classifier
}

func (a *classifierAdapter) Classify(ctx context.Context, v signal.Vector) (verdict.Result, error) {
	out, err := a.inner.Classify(ctx, Signals(v.Named()))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return verdict.Result{}, fmt.Errorf("custom classifier: %w", err)
		}
		return verdict.Result{}, domain.Unavailable("custom classifier", err)
	}
	res, err := verdict.New(verdict.Label(out.Label), out.Confidence)
	if err != nil {
		return verdict.Result{}, domain.Unavailable("custom classifier", err)
	}
	return res, nil
}

func (a *classifierAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // caller's own error
	}
	return nil
}
