package sonify

import (
	"math"
	"testing"
)

func TestNormalizePeak(t *testing.T) {
	in := []float64{0.1, -0.5, 0.25, 0.05}
	out := Normalize(in)
	if got := maxAbs(out); math.Abs(got-1) > 1e-15 {
		t.Fatalf("peak after normalize: got %.18f, want 1", got)
	}
	if out[1] != -1 {
		t.Fatalf("peak sample: got %g, want -1", out[1])
	}
	// Relative proportions survive.
	if math.Abs(out[0]-0.2) > 1e-15 || math.Abs(out[2]-0.5) > 1e-15 {
		t.Fatalf("proportions changed: %v", out)
	}
}

func TestNormalizeZerosUnchanged(t *testing.T) {
	in := make([]float64, 16)
	out := Normalize(in)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d vs %d", len(out), len(in))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %g, want 0", i, v)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := []float64{0.3, -0.9, 0.6}
	once := Normalize(in)
	twice := Normalize(once)
	for i := range once {
		if math.Abs(once[i]-twice[i]) > 1e-15 {
			t.Fatalf("sample %d: %g vs %g", i, once[i], twice[i])
		}
	}
}

func TestNormalizePure(t *testing.T) {
	in := []float64{0.5, -0.25}
	Normalize(in)
	if in[0] != 0.5 || in[1] != -0.25 {
		t.Fatalf("input mutated: %v", in)
	}
}
