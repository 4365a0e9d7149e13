// Package stretch implements pitch-preserving time stretching by waveform
// similarity overlap-add (WSOLA).
//
// A [Stretcher] cuts its input into sequences of a few tens of milliseconds.
// Each new sequence is placed where it best continues the tail of the
// previous one: a [Seeker] scans a short seek window for the offset whose
// waveform correlates best with that tail, the two are joined by a
// raised-cosine cross-fade, and the input read position advances by
// tempo*(sequence-overlap) frames. Output therefore grows by
// sequence-overlap frames per iteration regardless of tempo, which changes
// duration by 1/tempo while leaving the waveform period untouched.
//
// Sequence and seek lengths may be fixed in milliseconds or chosen
// automatically from the tempo: slow tempos get longer sequences, fast ones
// shorter. Two presets exist, tuned for music and for speech.
//
// The stretcher is streaming: frames are appended to [Stretcher.Input],
// [Stretcher.Process] runs as many iterations as the buffered input allows,
// and finished frames accumulate in [Stretcher.Output]. No output is
// produced until [Stretcher.InputRequirement] frames are buffered.
package stretch
