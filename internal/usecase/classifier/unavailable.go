package classifier

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Unavailable is the "none" backend. It never produces a verdict.
type Unavailable struct {
	backend string
}

// NewUnavailable creates an Unavailable classifier for the named backend.
func NewUnavailable(backend string) *Unavailable {
	return &Unavailable{backend: backend}
}

// Classify always fails with domain.ErrClassifierUnavailable.
func (u *Unavailable) Classify(context.Context, signal.Vector) (verdict.Result, error) {
	return verdict.Result{}, u.err("classify")
}

// HealthCheck always fails so /health reports the service as degraded.
func (u *Unavailable) HealthCheck(context.Context) error {
	return u.err("health check")
}

func (u *Unavailable) err(op string) error {
	return domain.Unavailable(op, fmt.Errorf("backend %q: %w", u.backend, domain.ErrNotImplemented))
}
