package conv

import "errors"

// Errors returned by correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// ValidLen returns the number of fully overlapping lags of a template of
// length m against a signal of length n, or 0 when m > n.
func ValidLen(n, m int) int {
	if m <= 0 || m > n {
		return 0
	}
	return n - m + 1
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

func validate(x, ref []float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	if len(ref) == 0 {
		return 0, ErrEmptyKernel
	}
	n := ValidLen(len(x), len(ref))
	if n == 0 {
		return 0, ErrLengthMismatch
	}
	return n, nil
}

func ensure(dst []float64, n int) []float64 {
	if cap(dst) >= n {
		return dst[:n]
	}
	return make([]float64, n)
}
