package fastmath

import (
	"math"
	"testing"
)

func TestSqrt(t *testing.T) {
	tol := 1e-12
	if Approximate {
		tol = 1e-3
	}

	tests := []float64{1e-6, 0.25, 1, 2, 10, 12345.678}
	for _, x := range tests {
		want := math.Sqrt(x)
		got := Sqrt(x)
		if math.Abs(got-want) > tol*want {
			t.Errorf("Sqrt(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestSqrtNonPositive(t *testing.T) {
	for _, x := range []float64{0, -1, math.Inf(-1)} {
		if got := Sqrt(x); got != 0 {
			t.Errorf("Sqrt(%v) = %v, want 0", x, got)
		}
	}
}
