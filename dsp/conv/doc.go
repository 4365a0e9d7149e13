// Package conv provides sliding cross-correlation for template matching.
//
// [ValidDirect] evaluates the correlation sum at every fully overlapping lag
// in the time domain. [Correlator] computes the same result through
// FFT-domain multiplication with cached plans and scratch buffers, which is
// cheaper once the template grows past a few dozen samples:
//
//	c := conv.NewCorrelator()
//	scores, err := c.Valid(nil, signal, template)
//	best, _ := conv.FindPeak(scores)
//
// Both return r[k] = sum_i template[i] * signal[k+i] for
// k in [0, len(signal)-len(template)].
package conv
