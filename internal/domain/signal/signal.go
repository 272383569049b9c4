// Package signal defines the fixed-size feature vector measured from a review.
package signal

import (
	"fmt"
	"math"
)

// Feature indexes a position in a Vector.
type Feature int

// Feature catalogue. The order is part of the wire format of remote backends
// and of the verdict cache key; append only.
const (
	Length Feature = iota
	LexicalDiversity
	ExclamationRate
	UppercaseRatio
	HypeRate
	Repetition
	PunctuationRatio
	CallToActionRate
	FirstPersonRate
	SpecificityRate
)

// Dim is the dimensionality of every Vector.
const Dim = 10

var featureNames = [Dim]string{
	Length:           "length",
	LexicalDiversity: "lexical_diversity",
	ExclamationRate:  "exclamation_rate",
	UppercaseRatio:   "uppercase_ratio",
	HypeRate:         "hype_rate",
	Repetition:       "repetition",
	PunctuationRatio: "punctuation_ratio",
	CallToActionRate: "call_to_action_rate",
	FirstPersonRate:  "first_person_rate",
	SpecificityRate:  "specificity_rate",
}

// String returns the snake_case feature name.
func (f Feature) String() string {
	if f < 0 || int(f) >= Dim {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// ParseFeature resolves a feature by name.
func ParseFeature(name string) (Feature, bool) {
	for i, n := range featureNames {
		if n == name {
			return Feature(i), true
		}
	}
	return 0, false
}

// Features returns all features in vector order.
func Features() []Feature {
	out := make([]Feature, Dim)
	for i := range out {
		out[i] = Feature(i)
	}
	return out
}

// Vector is an immutable signal vector. Every component lies in [0,1].
type Vector struct {
	values [Dim]float64
}

// NewVector validates values and builds a Vector.
func NewVector(values []float64) (Vector, error) {
	if len(values) != Dim {
		return Vector{}, fmt.Errorf("signal vector must have %d components, got %d", Dim, len(values))
	}
	var v Vector
	for i, x := range values {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return Vector{}, fmt.Errorf("signal %s out of range [0,1]: %v", Feature(i), x)
		}
		v.values[i] = x
	}
	return v, nil
}

// At returns the value of feature f.
func (v Vector) At(f Feature) float64 { return v.values[f] }

// Values returns a copy of the components in feature order.
func (v Vector) Values() []float64 {
	out := make([]float64, Dim)
	copy(out, v.values[:])
	return out
}

// Named returns the components keyed by feature name.
func (v Vector) Named() map[string]float64 {
	out := make(map[string]float64, Dim)
	for i, x := range v.values {
		out[featureNames[i]] = x
	}
	return out
}

// Len returns Dim.
func (Vector) Len() int { return Dim }
