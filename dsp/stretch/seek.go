package stretch

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/conv"
	"github.com/cwbudde/algo-stretch/internal/fastmath"
)

const seekTiny = 1e-12

// Seeker locates the best overlap position for the next sequence.
//
// ref holds overlap frames of interleaved reference data (the weighted tail
// of the previous sequence); window holds at least seekLen-1 further frames
// beyond that, with the same channel count. Seek returns the frame offset in
// [0, seekLen) whose overlap-long segment of window best matches ref.
// Equal scores resolve to the lowest offset.
type Seeker interface {
	Seek(ref, window []float64, channels, seekLen int) int
}

// score combines normalised correlation with a mild preference for offsets
// near the centre of the seek window.
func score(corr, norm, refNorm float64, offset, seekLen int) float64 {
	c := 0.0
	if den := fastmath.Sqrt(norm * refNorm); den > seekTiny {
		c = corr / den
	}
	tmp := float64(2*offset-seekLen+1) / float64(seekLen)
	return (c + 0.1) * (1 - 0.25*tmp*tmp)
}

func energy(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// evalOffset returns the score of the segment at offset.
func evalOffset(ref, window []float64, channels, offset, seekLen int, refNorm float64) float64 {
	seg := window[offset*channels : offset*channels+len(ref)]
	var corr, norm float64
	for k, r := range ref {
		v := seg[k]
		corr += r * v
		norm += v * v
	}
	return score(corr, norm, refNorm, offset, seekLen)
}

// ExhaustiveSeeker evaluates every offset of the seek window directly.
type ExhaustiveSeeker struct{}

// Seek implements [Seeker].
func (ExhaustiveSeeker) Seek(ref, window []float64, channels, seekLen int) int {
	refNorm := energy(ref)
	best := 0
	bestScore := math.Inf(-1)
	for i := 0; i < seekLen; i++ {
		if sc := evalOffset(ref, window, channels, i, seekLen, refNorm); sc > bestScore {
			bestScore = sc
			best = i
		}
	}
	return best
}

// QuickSeeker scans the seek window on a coarse grid of about sqrt(seekLen)
// frames and refines around the coarse winner. It evaluates roughly
// 3*sqrt(seekLen) offsets instead of seekLen and may miss narrow peaks.
type QuickSeeker struct{}

// Seek implements [Seeker].
func (QuickSeeker) Seek(ref, window []float64, channels, seekLen int) int {
	refNorm := energy(ref)
	step := int(math.Sqrt(float64(seekLen)))
	if step < 1 {
		step = 1
	}

	best := 0
	bestScore := math.Inf(-1)
	for i := 0; i < seekLen; i += step {
		if sc := evalOffset(ref, window, channels, i, seekLen, refNorm); sc > bestScore {
			bestScore = sc
			best = i
		}
	}

	lo := best - step + 1
	if lo < 0 {
		lo = 0
	}
	hi := best + step - 1
	if hi > seekLen-1 {
		hi = seekLen - 1
	}
	center := best
	for i := lo; i <= hi; i++ {
		if i == center {
			continue
		}
		sc := evalOffset(ref, window, channels, i, seekLen, refNorm)
		if sc > bestScore || (sc == bestScore && i < best) {
			bestScore = sc
			best = i
		}
	}
	return best
}

// FFTSeeker computes all correlations of the seek window at once through an
// FFT cross-correlation and tracks candidate energy with a running sum. It
// pays off for long overlaps and seek windows.
//
// An FFTSeeker keeps scratch state and must not be shared between
// concurrently running stretchers.
type FFTSeeker struct {
	corr   *conv.Correlator
	scores []float64
}

// NewFFTSeeker returns an FFTSeeker with lazily allocated plans.
func NewFFTSeeker() *FFTSeeker {
	return &FFTSeeker{corr: conv.NewCorrelator()}
}

// Seek implements [Seeker]. It falls back to direct evaluation if the FFT
// path fails.
func (f *FFTSeeker) Seek(ref, window []float64, channels, seekLen int) int {
	n := len(ref)
	span := (seekLen-1)*channels + n
	scores, err := f.corr.Valid(f.scores, window[:span], ref)
	if err != nil {
		return ExhaustiveSeeker{}.Seek(ref, window, channels, seekLen)
	}
	f.scores = scores

	refNorm := energy(ref)
	norm := energy(window[:n])
	best := 0
	bestScore := math.Inf(-1)
	for i := 0; i < seekLen; i++ {
		if i > 0 {
			prev := (i - 1) * channels
			for c := 0; c < channels; c++ {
				out := window[prev+c]
				in := window[prev+n+c]
				norm += in*in - out*out
			}
			if norm < 0 {
				norm = 0
			}
		}
		if sc := score(scores[i*channels], norm, refNorm, i, seekLen); sc > bestScore {
			bestScore = sc
			best = i
		}
	}
	return best
}
