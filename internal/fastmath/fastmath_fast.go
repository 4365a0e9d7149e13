//go:build fastmath

package fastmath

import (
	"github.com/meko-christian/algo-approx"
)

// Approximate reports whether approximations are compiled in.
const Approximate = true

// Sqrt computes sqrt(x) using fast approximation.
func Sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return approx.FastSqrt(x)
}
