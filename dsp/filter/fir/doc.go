// Package fir provides windowed-sinc low-pass design and a streaming,
// multi-channel direct-form FIR runtime.
//
// A [Filter] processes interleaved frames and keeps order frames of history
// per channel, so a stream may be filtered in blocks of any size with output
// identical to filtering it in one piece. It is intended for short
// anti-alias filters (tens to a few hundred taps).
package fir
