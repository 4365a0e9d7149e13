package testutil

import (
	"math"
	"testing"
)

// RequireFinite fails t if any sample is NaN or Inf.
func RequireFinite(t *testing.T, data []float32) {
	t.Helper()
	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireWithin fails t unless got lies within rel*want of want.
func RequireWithin(t *testing.T, what string, got, want, rel float64) {
	t.Helper()
	if math.Abs(got-want) > math.Abs(want)*rel {
		t.Fatalf("%s = %v, want %v within %.1f%%", what, got, want, 100*rel)
	}
}

// MaxAbsDiff returns the maximum absolute difference over the common prefix
// of a and b.
func MaxAbsDiff(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	maxDiff := 0.0
	for i := 0; i < n; i++ {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
