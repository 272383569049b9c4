// Package verdict holds the classification outcome.
package verdict

import (
	"fmt"
	"math"
)

// Label is the binary classification outcome.
type Label string

const (
	// Fake marks a review judged inauthentic.
	Fake Label = "fake"
	// Genuine marks a review judged authentic.
	Genuine Label = "genuine"
)

// Threshold is the fake-probability decision boundary.
const Threshold = 0.5

// ParseLabel validates a label string.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case Fake, Genuine:
		return Label(s), nil
	default:
		return "", fmt.Errorf("unknown label %q (want %q or %q)", s, Fake, Genuine)
	}
}

// IsFake reports whether l is Fake.
func (l Label) IsFake() bool { return l == Fake }

// Result is an immutable classification result.
type Result struct {
	label      Label
	confidence float64
	unscored   bool
}

// New validates a label and confidence in [0,1].
func New(label Label, confidence float64) (Result, error) {
	if _, err := ParseLabel(string(label)); err != nil {
		return Result{}, err
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return Result{}, fmt.Errorf("confidence must be in [0,1], got %v", confidence)
	}
	return Result{label: label, confidence: confidence}, nil
}

// LabelOnly builds a result whose confidence was never recorded.
func LabelOnly(label Label) (Result, error) {
	if _, err := ParseLabel(string(label)); err != nil {
		return Result{}, err
	}
	return Result{label: label, unscored: true}, nil
}

// FromProbability derives a result from a fake probability p in [0,1].
// The label is Fake iff p >= Threshold; confidence is max(p, 1-p), so it
// grows with the distance from the boundary and is 0.5 on it.
func FromProbability(p float64) (Result, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Result{}, fmt.Errorf("fake probability must be in [0,1], got %v", p)
	}
	if p >= Threshold {
		return Result{label: Fake, confidence: p}, nil
	}
	return Result{label: Genuine, confidence: 1 - p}, nil
}

// Label returns the outcome.
func (r Result) Label() Label { return r.label }

// Scored reports whether r carries a confidence.
func (r Result) Scored() bool { return r.label != "" && !r.unscored }

// Confidence returns the classifier certainty in [0,1], 0 when unscored.
func (r Result) Confidence() float64 { return r.confidence }

// FakeProbability returns the probability mass on Fake.
func (r Result) FakeProbability() float64 {
	if r.label == Fake {
		return r.confidence
	}
	return 1 - r.confidence
}

// IsZero reports whether r is the zero value.
func (r Result) IsZero() bool { return r.label == "" }
