package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/window"
)

// ErrInvalidDesign indicates unusable low-pass design parameters.
var ErrInvalidDesign = errors.New("fir: invalid design")

// Lowpass designs a linear-phase windowed-sinc low-pass filter.
//
// cutoff is the normalised cutoff frequency in cycles per sample and must lie
// in (0, 0.5]. opts configure the window, e.g. [window.WithBeta] for
// [window.TypeKaiser]. The taps are scaled to unit DC gain.
func Lowpass(cutoff float64, length int, win window.Type, opts ...window.Option) ([]float64, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: length must be >= 1: %d", ErrInvalidDesign, length)
	}
	if !(cutoff > 0 && cutoff <= 0.5) {
		return nil, fmt.Errorf("%w: cutoff must be in (0, 0.5]: %f", ErrInvalidDesign, cutoff)
	}

	taps := make([]float64, length)
	center := 0.5 * float64(length-1)
	for n := range taps {
		x := float64(n) - center
		taps[n] = 2 * cutoff * sinc(2*cutoff*x)
	}
	window.Apply(win, taps, opts...)

	var sum float64
	for _, v := range taps {
		sum += v
	}
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("%w: zero-sum filter", ErrInvalidDesign)
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
