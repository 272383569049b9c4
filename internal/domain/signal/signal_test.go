package signal

import (
	"math"
	"testing"
)

func TestFeatureNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Features() {
		name := f.String()
		if name == "" {
			t.Fatalf("feature %d has no name", int(f))
		}
		if seen[name] {
			t.Fatalf("duplicate feature name %q", name)
		}
		seen[name] = true

		got, ok := ParseFeature(name)
		if !ok || got != f {
			t.Errorf("ParseFeature(%q) = %v, %v", name, got, ok)
		}
	}
	if len(seen) != Dim {
		t.Errorf("expected %d features, got %d", Dim, len(seen))
	}
}

func TestParseFeature_Unknown(t *testing.T) {
	if _, ok := ParseFeature("sentiment"); ok {
		t.Error("expected unknown feature")
	}
}

func TestFeatureString_OutOfRange(t *testing.T) {
	if got := Feature(42).String(); got != "feature(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewVector(t *testing.T) {
	vals := make([]float64, Dim)
	vals[HypeRate] = 0.25
	v, err := NewVector(vals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.At(HypeRate) != 0.25 {
		t.Errorf("At(HypeRate) = %v", v.At(HypeRate))
	}
	if v.Len() != Dim {
		t.Errorf("Len() = %d", v.Len())
	}
	if v.Named()["hype_rate"] != 0.25 {
		t.Errorf("Named() = %v", v.Named())
	}

	// Values returns a copy.
	out := v.Values()
	out[HypeRate] = 1
	if v.At(HypeRate) != 0.25 {
		t.Error("Values() must not alias the vector")
	}
}

func TestNewVector_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
	}{
		{"short", make([]float64, Dim-1)},
		{"long", make([]float64, Dim+1)},
		{"negative", withAt(0, -0.1)},
		{"above one", withAt(3, 1.5)},
		{"nan", withAt(5, math.NaN())},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewVector(tc.vals); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func withAt(i int, x float64) []float64 {
	vals := make([]float64, Dim)
	vals[i] = x
	return vals
}
