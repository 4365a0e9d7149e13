//go:build !fastmath

package fastmath

import "math"

// Approximate reports whether approximations are compiled in.
const Approximate = false

// Sqrt computes sqrt(x) using the standard library. Non-positive inputs
// yield 0.
func Sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}
