package interp

import (
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("got %v want 2.5", got)
	}
}

func TestLanczosNHitsTapsAtIntegerPositions(t *testing.T) {
	taps := []float64{0.3, -0.7, 1.2, 0.4, -0.1, 0.9}
	if got := LanczosN(0, taps); got != taps[2] {
		t.Fatalf("t=0: got %v want %v", got, taps[2])
	}
	// t close to 1 must approach the next centre tap.
	if got := LanczosN(1-1e-9, taps); math.Abs(got-taps[3]) > 1e-6 {
		t.Fatalf("t->1: got %v want %v", got, taps[3])
	}
}

func TestLanczosNPreservesDC(t *testing.T) {
	taps := []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	for _, frac := range []float64{0.1, 0.37, 0.5, 0.9} {
		if got := LanczosN(frac, taps); math.Abs(got-0.5) > 1e-12 {
			t.Fatalf("t=%v: got %v want 0.5", frac, got)
		}
	}
}

func TestLanczosNFallsBackToLinear(t *testing.T) {
	if got := LanczosN(0.5, []float64{1, 3}); got != 2 {
		t.Fatalf("got %v want 2", got)
	}
	if got := LanczosN(0.5, []float64{7}); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
}

func TestKernelsTrackSine(t *testing.T) {
	kernels := []struct {
		name string
		k    Kernel
		tol  float64
	}{
		{"linear", Linear{}, 2e-2},
		{"cubic", Cubic{}, 2e-3},
		{"lanczos3", Lanczos{A: 3}, 5e-3},
	}
	const step = 2 * math.Pi / 64
	for _, tc := range kernels {
		t.Run(tc.name, func(t *testing.T) {
			w := tc.k.Width()
			taps := make([]float64, w)
			for i := range taps {
				taps[i] = math.Sin(step * float64(i))
			}
			base := float64(w/2 - 1)
			for _, frac := range []float64{0.2, 0.5, 0.8} {
				want := math.Sin(step * (base + frac))
				got := tc.k.Interpolate(frac, taps)
				if math.Abs(got-want) > tc.tol {
					t.Fatalf("t=%v: got %v want %v", frac, got, want)
				}
			}
		})
	}
}

func TestLanczosWidth(t *testing.T) {
	tests := []struct {
		a    int
		want int
	}{
		{0, 6},
		{1, 4},
		{2, 4},
		{4, 8},
	}
	for _, tt := range tests {
		if w := (Lanczos{A: tt.a}).Width(); w != tt.want {
			t.Errorf("Lanczos{A: %d}.Width() = %d, want %d", tt.a, w, tt.want)
		}
	}
}
