package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinitePositive reports whether v is a finite value greater than zero.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PercentToRatio converts a relative change in percent to a ratio, so that
// 0 maps to 1.0, +100 to 2.0 and -50 to 0.5.
func PercentToRatio(percent float64) float64 {
	return 1 + 0.01*percent
}

// OctavesToRatio converts an octave offset to a frequency ratio (2^octaves).
func OctavesToRatio(octaves float64) float64 {
	return math.Exp2(octaves)
}

// SemitonesToRatio converts a semitone offset to a frequency ratio
// (2^(semitones/12)).
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}
