package heuristic

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Classifier scores a signal vector with a fixed logistic model.
// It is pure and safe for concurrent use.
type Classifier struct {
	weights Weights
}

// New creates a heuristic Classifier.
func New(w Weights) (*Classifier, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Classifier{weights: w}, nil
}

// Classify implements domain.Classifier.
func (c *Classifier) Classify(_ context.Context, v signal.Vector) (verdict.Result, error) {
	p := sigmoid(c.weights.Logit(v))
	res, err := verdict.FromProbability(p)
	if err != nil {
		return verdict.Result{}, fmt.Errorf("heuristic verdict: %w", err)
	}
	return res, nil
}

// HealthCheck always succeeds; the model is in memory.
func (c *Classifier) HealthCheck(context.Context) error { return nil }
