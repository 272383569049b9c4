package nats

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain/attempt"
)

// LogPublisher writes attempt events to the log when NATS is not configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs ev at info level. It never fails.
func (p *LogPublisher) Publish(_ context.Context, ev attempt.Event) error {
	fields := []zap.Field{
		zap.String("request_id", ev.RequestID),
		zap.String("backend", ev.Backend),
		zap.String("outcome", string(ev.Outcome)),
		zap.Int("review_bytes", ev.ReviewBytes),
		zap.Float64("duration_ms", ev.DurationMS),
	}
	if ev.Confidence != nil {
		fields = append(fields,
			zap.String("label", string(ev.Label)),
			zap.Float64("confidence", *ev.Confidence),
		)
	}
	p.logger.Info("classification_attempt", fields...)
	return nil
}
