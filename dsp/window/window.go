// Package window generates the tapering windows used for cross-fades,
// correlation weighting and FIR design.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ErrInvalidLength indicates a non-positive window length.
var ErrInvalidLength = errors.New("window: length must be > 0")

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeWelch
	TypeKaiser
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	beta float64
}

func defaultConfig() config {
	return config{beta: 8.6}
}

// WithBeta sets the shape parameter of the Kaiser window. Negative values
// are ignored.
func WithBeta(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.beta = v
		}
	}
}

// Generate returns length coefficients of window t. A non-positive length
// yields nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length)
		out[i] = evalWindow(t, x, cfg)
	}
	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Fade returns complementary raised-cosine ramps of the given length:
// fadeIn rises from 0 towards 1, fadeOut falls from 1 towards 0, and
// fadeIn[i]+fadeOut[i] == 1 for every i.
func Fade(length int) (fadeIn, fadeOut []float64, err error) {
	if length <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	fadeIn = make([]float64, length)
	fadeOut = make([]float64, length)
	for i := range fadeIn {
		x := float64(i) / float64(length)
		in := 0.5 - 0.5*math.Cos(math.Pi*x)
		fadeIn[i] = in
		fadeOut[i] = 1 - in
	}
	return fadeIn, fadeOut, nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeWelch:
		d := x - 0.5
		return 1 - 4*d*d
	case TypeKaiser:
		return kaiserAt(x, cfg.beta)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

// samplePosition maps tap n of a symmetric window to [0, 1].
func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0.5
	}
	return float64(n) / float64(size-1)
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series, summed until terms fall below 1e-16 relative.
func besselI0(x float64) float64 {
	q := 0.25 * x * x
	sum, term := 1.0, 1.0
	for k := 1; k < 500; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
