// Package classifier holds the decorators composed around a classifier backend.
package classifier

import (
	"context"

	"github.com/kailas-cloud/reviewguard/internal/resilience"
)

// Executor runs a call under a named circuit breaker.
type Executor interface {
	Execute(ctx context.Context, operation string, fn func(context.Context) error, classifier resilience.ErrorClassifier) error
}
