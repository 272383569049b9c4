package health

import "context"

// Checker is a single named dependency check.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

// HealthCheck calls f(ctx).
func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }
