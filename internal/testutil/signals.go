package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Interleave builds interleaved float32 frames from equal-length channel
// slices. Shorter channels are zero-padded to the longest.
func Interleave(channels ...[]float64) []float32 {
	if len(channels) == 0 {
		return nil
	}
	frames := 0
	for _, ch := range channels {
		if len(ch) > frames {
			frames = len(ch)
		}
	}
	out := make([]float32, frames*len(channels))
	for c, ch := range channels {
		for i, v := range ch {
			out[i*len(channels)+c] = float32(v)
		}
	}
	return out
}

// Channel extracts one channel of interleaved float32 frames as float64.
func Channel(interleaved []float32, channels, index int) []float64 {
	if channels < 1 || index < 0 || index >= channels {
		return nil
	}
	out := make([]float64, len(interleaved)/channels)
	for i := range out {
		out[i] = float64(interleaved[i*channels+index])
	}
	return out
}

// RMS returns the root-mean-square level of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
