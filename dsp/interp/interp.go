package interp

import "math"

// Kernel is a fixed-width interpolator. Interpolate receives Width() taps and
// a fraction t in [0,1) and returns the value between taps[Width()/2-1]
// (t=0) and taps[Width()/2] (t=1).
type Kernel interface {
	Width() int
	Interpolate(t float64, taps []float64) float64
}

// Linear is the 2-tap linear kernel.
type Linear struct{}

// Width returns 2.
func (Linear) Width() int { return 2 }

// Interpolate implements [Kernel].
func (Linear) Interpolate(t float64, taps []float64) float64 {
	return Linear2(t, taps[0], taps[1])
}

// Cubic is the 4-tap Hermite kernel.
type Cubic struct{}

// Width returns 4.
func (Cubic) Width() int { return 4 }

// Interpolate implements [Kernel].
func (Cubic) Interpolate(t float64, taps []float64) float64 {
	return Hermite4(t, taps[0], taps[1], taps[2], taps[3])
}

// Lanczos is a windowed-sinc kernel with 2*A taps. The zero value uses
// A = 3.
type Lanczos struct {
	A int
}

// Width returns 2*A. A of zero selects 3; other values below 2 select 2.
func (l Lanczos) Width() int { return 2 * l.order() }

// Interpolate implements [Kernel].
func (l Lanczos) Interpolate(t float64, taps []float64) float64 {
	return LanczosN(t, taps[:2*l.order()])
}

func (l Lanczos) order() int {
	if l.A == 0 {
		return 3
	}
	if l.A < 2 {
		return 2
	}
	return l.A
}

// Linear2 interpolates linearly from x0 (t=0) to x1 (t=1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// LanczosN interpolates with a Lanczos kernel of order a = len(taps)/2.
// It interpolates from taps[a-1] (t=0) to taps[a] (t=1). Weights are
// normalised to unit DC gain. An odd or short tap slice falls back to linear
// interpolation of the two centre taps.
func LanczosN(t float64, taps []float64) float64 {
	n := len(taps)
	if n < 4 || n%2 != 0 {
		if n < 2 {
			if n == 1 {
				return taps[0]
			}
			return 0
		}
		c := n/2 - 1
		return Linear2(t, taps[c], taps[c+1])
	}
	if t == 0 {
		return taps[n/2-1]
	}

	a := float64(n / 2)
	var sum, wsum float64
	for k, x := range taps {
		d := float64(k-(n/2-1)) - t
		w := sinc(d) * sinc(d/a)
		sum += w * x
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
