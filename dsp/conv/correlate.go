package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ValidDirect computes the valid-mode cross-correlation of ref against x in
// the time domain and stores it in dst (reallocated if too short).
func ValidDirect(dst, x, ref []float64) ([]float64, error) {
	n, err := validate(x, ref)
	if err != nil {
		return nil, err
	}
	dst = ensure(dst, n)
	for k := range dst {
		var sum float64
		seg := x[k : k+len(ref)]
		for i, r := range ref {
			sum += r * seg[i]
		}
		dst[k] = sum
	}
	return dst, nil
}

// Correlator computes valid-mode cross-correlations via FFT and reuses its
// plan and scratch memory between calls of similar size.
//
// A Correlator is not safe for concurrent use.
type Correlator struct {
	size int
	plan *algofft.Plan[complex128]

	xPadded []complex128
	rPadded []complex128
	xFreq   []complex128
	rFreq   []complex128
	product []complex128
	timeDom []complex128
}

// NewCorrelator returns an empty Correlator. Plans are created lazily.
func NewCorrelator() *Correlator {
	return &Correlator{}
}

// Size returns the current FFT size, or 0 before first use.
func (c *Correlator) Size() int { return c.size }

// Valid computes r[k] = sum_i ref[i]*x[k+i] for every fully overlapping lag
// and stores it in dst (reallocated if too short).
func (c *Correlator) Valid(dst, x, ref []float64) ([]float64, error) {
	n, err := validate(x, ref)
	if err != nil {
		return nil, err
	}
	if err := c.prepare(nextPowerOf2(len(x))); err != nil {
		return nil, err
	}

	for i := range c.xPadded {
		c.xPadded[i] = 0
		c.rPadded[i] = 0
	}
	for i, v := range x {
		c.xPadded[i] = complex(v, 0)
	}
	for i, v := range ref {
		c.rPadded[i] = complex(v, 0)
	}

	if err := c.plan.Forward(c.xFreq, c.xPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := c.plan.Forward(c.rFreq, c.rPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// X * conj(R) yields the circular correlation; lags up to len(x)-len(ref)
	// never wrap because size >= len(x).
	for i := range c.product {
		r := c.rFreq[i]
		c.product[i] = c.xFreq[i] * complex(real(r), -imag(r))
	}
	if err := c.plan.Inverse(c.timeDom, c.product); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	dst = ensure(dst, n)
	for k := range dst {
		dst[k] = real(c.timeDom[k])
	}
	return dst, nil
}

func (c *Correlator) prepare(size int) error {
	if size == c.size && c.plan != nil {
		return nil
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}
	c.plan = plan
	c.size = size
	c.xPadded = make([]complex128, size)
	c.rPadded = make([]complex128, size)
	c.xFreq = make([]complex128, size)
	c.rFreq = make([]complex128, size)
	c.product = make([]complex128, size)
	c.timeDom = make([]complex128, size)
	return nil
}

// FindPeak finds the index and value of the maximum in a correlation result.
// Ties resolve to the lowest index.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}

	index = 0
	value = corr[0]

	for i, v := range corr {
		if v > value {
			index = i
			value = v
		}
	}

	return index, value
}
