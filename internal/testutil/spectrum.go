package testutil

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// DominantFrequency estimates the strongest spectral component of x in Hz.
//
// The signal is Hann-weighted and zero-padded to a power of two of at least
// 4*len(x); the peak bin is refined by parabolic interpolation.
func DominantFrequency(x []float64, sampleRate float64) (float64, error) {
	if len(x) < 4 {
		return 0, fmt.Errorf("testutil: signal too short: %d", len(x))
	}

	n := 1
	for n < 4*len(x) {
		n *= 2
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("testutil: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	w := window.Generate(window.TypeHann, len(x))
	for i, v := range x {
		in[i] = complex(v*w[i], 0)
	}
	spec := make([]complex128, n)
	if err := plan.Forward(spec, in); err != nil {
		return 0, fmt.Errorf("testutil: forward FFT failed: %w", err)
	}

	half := n/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := range re {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}
	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	peak := 1
	for i := 2; i < half-1; i++ {
		if mag[i] > mag[peak] {
			peak = i
		}
	}

	bin := float64(peak)
	if peak > 0 && peak < half-1 {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return bin * sampleRate / float64(n), nil
}
