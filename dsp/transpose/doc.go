// Package transpose changes the playback rate of an interleaved stream by
// fractional-position resampling.
//
// A [Transposer] with rate r emits roughly one output frame per r input
// frames, which shifts pitch and duration together by r. Values between
// input frames come from a pluggable interpolation kernel from the interp
// package; kernel history and fractional phase carry over between calls, so
// arbitrary chunking yields the same stream.
//
// An optional windowed-sinc low-pass guards against aliasing: it runs on
// the input before decimation (r > 1) and on the output after
// interpolation (r < 1), with a cutoff of half of min(r, 1/r) cycles per
// sample.
package transpose
