// Package detect turns raw review text into a verdict.
package detect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/attempt"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/signal/extract"
	"github.com/kailas-cloud/reviewguard/internal/domain/text"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
	"github.com/kailas-cloud/reviewguard/internal/logger"
	"github.com/kailas-cloud/reviewguard/internal/metrics"
)

// Service classifies review text and reports every attempt.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	classifier domain.Classifier
	backend    string
	publisher  Publisher
	now        func() time.Time
}

// New creates a detection service. publisher may be nil.
func New(classifier domain.Classifier, backend string, publisher Publisher) *Service {
	return &Service{
		classifier: classifier,
		backend:    backend,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Backend returns the name of the configured classifier backend.
func (s *Service) Backend() string { return s.backend }

// Detect validates raw, extracts signals and classifies them.
// Returned errors wrap domain.ErrInvalidInput, domain.ErrClassifierUnavailable
// or an unexpected internal error.
func (s *Service) Detect(ctx context.Context, raw string) (verdict.Result, error) {
	start := s.now()

	review, err := text.New(raw)
	length := len(raw)
	var res verdict.Result
	if err != nil {
		err = fmt.Errorf("review text: %w", err)
	} else {
		length = review.Len()
		res, err = s.classify(ctx, extract.Extract(review))
	}

	s.publish(ctx, attempt.New(
		logger.RequestID(ctx), s.backend, res, err,
		length, s.now().Sub(start), start,
	))

	return res, err
}

// Signals validates raw and returns its feature vector without classifying it.
func (s *Service) Signals(raw string) (signal.Vector, error) {
	review, err := text.New(raw)
	if err != nil {
		return signal.Vector{}, fmt.Errorf("review text: %w", err)
	}
	return extract.Extract(review), nil
}

func (s *Service) classify(ctx context.Context, vec signal.Vector) (verdict.Result, error) {
	res, err := s.classifier.Classify(ctx, vec)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, domain.ErrClassifierUnavailable), errors.Is(err, domain.ErrInvalidInput):
		return verdict.Result{}, fmt.Errorf("detect: %w", err)
	default:
		return verdict.Result{}, fmt.Errorf("detect: unexpected classifier failure: %w", err)
	}
}

func (s *Service) publish(ctx context.Context, ev attempt.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
		logger.FromContext(ctx).Warn("Failed to publish classification attempt",
			zap.String("outcome", string(ev.Outcome)),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
}
