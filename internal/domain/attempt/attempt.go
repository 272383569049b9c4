// Package attempt describes the event emitted once per classification call.
package attempt

import (
	"errors"
	"time"

	"github.com/kailas-cloud/reviewguard/internal/domain"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Outcome is the result class of one classification attempt.
type Outcome string

const (
	// Classified means a verdict was produced.
	Classified Outcome = "classified"
	// InvalidInput means the payload was rejected before classification.
	InvalidInput Outcome = "invalid_input"
	// Unavailable means the classifier could not produce a verdict.
	Unavailable Outcome = "unavailable"
	// Failed means an unexpected internal error.
	Failed Outcome = "error"
)

// OutcomeOf maps a classification error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Classified
	case errors.Is(err, domain.ErrInvalidInput):
		return InvalidInput
	case errors.Is(err, domain.ErrClassifierUnavailable):
		return Unavailable
	default:
		return Failed
	}
}

// Event is the wire form of a classification attempt. It never carries review text.
type Event struct {
	RequestID   string        `json:"request_id,omitempty"`
	Backend     string        `json:"backend"`
	Outcome     Outcome       `json:"outcome"`
	Label       verdict.Label `json:"label,omitempty"`
	Confidence  *float64      `json:"confidence,omitempty"`
	ReviewBytes int           `json:"review_bytes"`
	DurationMS  float64       `json:"duration_ms"`
	At          time.Time     `json:"at"`
}

// New builds an Event from a classification outcome.
func New(requestID, backend string, res verdict.Result, err error, reviewBytes int, took time.Duration, at time.Time) Event {
	ev := Event{
		RequestID:   requestID,
		Backend:     backend,
		Outcome:     OutcomeOf(err),
		ReviewBytes: reviewBytes,
		DurationMS:  float64(took.Microseconds()) / 1000.0,
		At:          at.UTC(),
	}
	if err == nil && !res.IsZero() {
		c := res.Confidence()
		ev.Label = res.Label()
		ev.Confidence = &c
	}
	return ev
}
