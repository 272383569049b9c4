package verdict

import (
	"math"
	"testing"
)

func TestParseLabel(t *testing.T) {
	for _, s := range []string{"fake", "genuine"} {
		if _, err := ParseLabel(s); err != nil {
			t.Errorf("ParseLabel(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "FAKE", "spam"} {
		if _, err := ParseLabel(s); err == nil {
			t.Errorf("ParseLabel(%q): expected error", s)
		}
	}
}

func TestNew(t *testing.T) {
	r, err := New(Fake, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Label() != Fake || r.Confidence() != 0.9 {
		t.Errorf("got %s/%v", r.Label(), r.Confidence())
	}
	if !r.Label().IsFake() {
		t.Error("IsFake() = false")
	}

	bad := []float64{-0.01, 1.01, math.NaN()}
	for _, c := range bad {
		if _, err := New(Genuine, c); err == nil {
			t.Errorf("New(Genuine, %v): expected error", c)
		}
	}
	if _, err := New("maybe", 0.5); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestFromProbability(t *testing.T) {
	tests := []struct {
		p          float64
		label      Label
		confidence float64
	}{
		{0, Genuine, 1},
		{0.2, Genuine, 0.8},
		{0.4999, Genuine, 0.5001},
		{0.5, Fake, 0.5},
		{0.75, Fake, 0.75},
		{1, Fake, 1},
	}
	for _, tc := range tests {
		r, err := FromProbability(tc.p)
		if err != nil {
			t.Fatalf("FromProbability(%v): %v", tc.p, err)
		}
		if r.Label() != tc.label {
			t.Errorf("FromProbability(%v) label = %s, want %s", tc.p, r.Label(), tc.label)
		}
		if math.Abs(r.Confidence()-tc.confidence) > 1e-9 {
			t.Errorf("FromProbability(%v) confidence = %v, want %v", tc.p, r.Confidence(), tc.confidence)
		}
		if math.Abs(r.FakeProbability()-tc.p) > 1e-9 {
			t.Errorf("FakeProbability() = %v, want %v", r.FakeProbability(), tc.p)
		}
	}
}

func TestFromProbability_Monotonic(t *testing.T) {
	prev := 0.0
	for p := 0.5; p <= 1.0; p += 0.05 {
		r, err := FromProbability(p)
		if err != nil {
			t.Fatal(err)
		}
		if r.Confidence() < prev {
			t.Fatalf("confidence decreased at p=%v", p)
		}
		prev = r.Confidence()
	}
}

func TestFromProbability_Invalid(t *testing.T) {
	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := FromProbability(p); err == nil {
			t.Errorf("FromProbability(%v): expected error", p)
		}
	}
}

func TestIsZero(t *testing.T) {
	var r Result
	if !r.IsZero() {
		t.Error("zero Result should report IsZero")
	}
}

func TestLabelOnly(t *testing.T) {
	r, err := LabelOnly(Fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Scored() {
		t.Error("Scored() = true for label-only result")
	}
	if r.IsZero() || !r.Label().IsFake() {
		t.Errorf("got label %q", r.Label())
	}
	if _, err := LabelOnly("spam"); err == nil {
		t.Error("expected error for unknown label")
	}

	scored, _ := New(Genuine, 0.6)
	if !scored.Scored() {
		t.Error("Scored() = false for New result")
	}
	if (Result{}).Scored() {
		t.Error("zero Result reports Scored()")
	}
}
