package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float32{1.0, 2.0, 3.0}
	b := []float32{1.0, 2.5, 3.0, 9}

	if d := MaxAbsDiff(a, b); math.Abs(d-0.5) > 1e-7 {
		t.Fatalf("MaxAbsDiff = %v, want 0.5", d)
	}
	if d := MaxAbsDiff(nil, b); d != 0 {
		t.Fatalf("MaxAbsDiff(nil) = %v, want 0", d)
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireFinite(t, []float32{0, 1, -1})
	RequireWithin(t, "frames", 29400, 29400, 0.05)
	RequireWithin(t, "frames", 30000, 29400, 0.05)
}
