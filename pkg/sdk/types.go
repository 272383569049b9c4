package sdk

import (
	"context"

	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

// Label is the classification outcome.
type Label string

// Labels.
const (
	LabelFake    Label = Label(verdict.Fake)
	LabelGenuine Label = Label(verdict.Genuine)
)

// Verdict is the result of classifying one review.
type Verdict struct {
	Label      Label
	Confidence float64 // in [0,1]
}

// IsFake reports whether the review was judged fake.
func (v Verdict) IsFake() bool { return v.Label == LabelFake }

// Signals maps each feature name to its value in [0,1].
type Signals map[string]float64

// FeatureNames lists the signal names in vector order.
func FeatureNames() []string {
	feats := signal.Features()
	names := make([]string, len(feats))
	for i, f := range feats {
		names[i] = f.String()
	}
	return names
}

// Classifier is a caller-supplied decision model.
// It must be deterministic for given signals and must return an error
// instead of guessing when it cannot decide.
type Classifier interface {
	Classify(ctx context.Context, s Signals) (Verdict, error)
}

func fromResult(r verdict.Result) Verdict {
	return Verdict{Label: Label(r.Label()), Confidence: r.Confidence()}
}
