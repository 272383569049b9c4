package sdk

import (
	"context"
	"sync/atomic"
)

// --- Classifier mock ---

type mockClassifier struct {
	fn        func(ctx context.Context, s Signals) (Verdict, error)
	healthErr error
	calls     atomic.Int32
}

func (m *mockClassifier) Classify(ctx context.Context, s Signals) (Verdict, error) {
	m.calls.Add(1)
	return m.fn(ctx, s)
}

func (m *mockClassifier) HealthCheck(context.Context) error { return m.healthErr }

// plainClassifier has no HealthCheck method.
type plainClassifier struct {
	v Verdict
}

func (p plainClassifier) Classify(context.Context, Signals) (Verdict, error) { return p.v, nil }

func constClassifier(v Verdict, err error) *mockClassifier {
	return &mockClassifier{fn: func(context.Context, Signals) (Verdict, error) { return v, err }}
}
