// Package heuristic implements a logistic scorer over the signal catalogue.
package heuristic

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/reviewguard/internal/domain/signal"
)

// Weights is a read-only logistic model: p_fake = sigmoid(Bias + sum(w_i * f_i)).
// A positive weight pushes toward fake.
type Weights struct {
	Bias   float64
	Coeffs [signal.Dim]float64
}

// DefaultWeights returns the built-in model.
func DefaultWeights() Weights {
	var w Weights
	w.Bias = 0.5
	w.Coeffs[signal.Length] = -0.5
	w.Coeffs[signal.LexicalDiversity] = -1.5
	w.Coeffs[signal.ExclamationRate] = 3.0
	w.Coeffs[signal.UppercaseRatio] = 3.0
	w.Coeffs[signal.HypeRate] = 4.0
	w.Coeffs[signal.Repetition] = 3.0
	w.Coeffs[signal.PunctuationRatio] = 2.0
	w.Coeffs[signal.CallToActionRate] = 4.0
	w.Coeffs[signal.FirstPersonRate] = -0.5
	w.Coeffs[signal.SpecificityRate] = -3.0
	return w
}

// weightsFile is the YAML form of Weights.
type weightsFile struct {
	Bias    *float64           `yaml:"bias"`
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a YAML weights file on top of DefaultWeights.
// Features absent from the file keep their default weight.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Weights{}, fmt.Errorf("read weights %s: %w", path, err)
	}
	return ParseWeights(data)
}

// ParseWeights decodes YAML weights on top of DefaultWeights.
func ParseWeights(data []byte) (Weights, error) {
	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Weights{}, fmt.Errorf("parse weights: %w", err)
	}

	w := DefaultWeights()
	if f.Bias != nil {
		w.Bias = *f.Bias
	}
	for name, coeff := range f.Weights {
		feat, ok := signal.ParseFeature(name)
		if !ok {
			return Weights{}, fmt.Errorf("unknown feature %q in weights", name)
		}
		w.Coeffs[feat] = coeff
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// Validate rejects non-finite parameters.
func (w Weights) Validate() error {
	if !finite(w.Bias) {
		return fmt.Errorf("bias must be finite")
	}
	for i, c := range w.Coeffs {
		if !finite(c) {
			return fmt.Errorf("weight %s must be finite", signal.Feature(i))
		}
	}
	return nil
}

// Logit returns the decision score. Zero is the decision boundary.
func (w Weights) Logit(v signal.Vector) float64 {
	z := w.Bias
	for i, c := range w.Coeffs {
		z += c * v.At(signal.Feature(i))
	}
	return z
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
