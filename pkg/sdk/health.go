package sdk

import (
	"context"

	healthuc "github.com/kailas-cloud/reviewguard/internal/usecase/health"
)

// HealthStatus reports whether the decision model can currently classify.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // "classifier" → "ok" or "error"
}

// OK reports whether every check passed.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the classifier backend. The heuristic model is always healthy;
// remote and custom backends are asked directly.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, st := range report.Checks {
		h.Checks[name] = string(st)
	}
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
