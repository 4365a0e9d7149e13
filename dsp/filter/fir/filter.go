package fir

import (
	"math"
	"math/cmplx"
)

// Filter implements a direct-form FIR filter over interleaved frames.
type Filter struct {
	coeffs   []float64
	channels int
	history  []float64 // (len(coeffs)-1) frames, oldest first
	work     []float64
}

// New creates a FIR filter from the given coefficient slice for the given
// channel count (clamped to >= 1). The coefficients are copied. The filter
// order is len(coeffs)-1.
func New(coeffs []float64, channels int) *Filter {
	if channels < 1 {
		channels = 1
	}
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	f := &Filter{coeffs: c, channels: channels}
	f.history = make([]float64, f.Order()*channels)
	return f
}

// ProcessBlockTo filters the interleaved frames of src into dst.
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
//
// Both slices must hold the same number of whole frames; dst and src may not
// overlap. It returns the number of frames written.
func (f *Filter) ProcessBlockTo(dst, src []float64) int {
	ch := f.channels
	frames := len(src) / ch
	if n := len(dst) / ch; n < frames {
		frames = n
	}
	if frames == 0 || len(f.coeffs) == 0 {
		return 0
	}

	order := f.Order()
	need := (order + frames) * ch
	if cap(f.work) < need {
		f.work = make([]float64, need)
	}
	work := f.work[:need]
	copy(work, f.history)
	copy(work[order*ch:], src[:frames*ch])

	for n := 0; n < frames; n++ {
		base := (n + order) * ch
		for c := 0; c < ch; c++ {
			var y float64
			idx := base + c
			for _, h := range f.coeffs {
				y += h * work[idx]
				idx -= ch
			}
			dst[n*ch+c] = y
		}
	}

	copy(f.history, work[frames*ch:])
	return frames
}

// Reset clears the delay line to zero.
func (f *Filter) Reset() {
	for i := range f.history {
		f.history[i] = 0
	}
}

// Channels returns the number of interleaved channels.
func (f *Filter) Channels() int {
	return f.channels
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	if len(f.coeffs) == 0 {
		return 0
	}
	return len(f.coeffs) - 1
}

// Latency returns the group delay in frames of a linear-phase design.
func (f *Filter) Latency() int {
	return f.Order() / 2
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	c := make([]float64, len(f.coeffs))
	copy(c, f.coeffs)
	return c
}

// Response computes the complex frequency response H(e^{-jw}) at the given
// frequency (Hz) and sample rate (Hz).
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (f *Filter) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freqHz, sampleRate)))
}
