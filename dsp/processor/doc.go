// Package processor is a streaming rate, tempo and pitch changer for
// interleaved multi-channel audio.
//
// A [Processor] accepts float32 frames in chunks of any size through
// [Processor.PutSamples] and hands finished frames back through
// [Processor.ReceiveSamples]. Internally it chains a WSOLA time stretcher
// (package stretch) and a fractional resampler (package transpose):
//
//   - tempo changes duration only,
//   - rate changes duration and pitch together,
//   - pitch changes pitch only, by resampling and compensating the duration
//     change in the stretcher.
//
// The effective resampling ratio is rate*pitch and the effective stretch
// ratio tempo/pitch. When resampling lowers the pitch (ratio <= 1) the
// resampler runs first, otherwise the stretcher runs first. Either way the
// stretcher sees the lower-pitched version of the signal, where a waveform
// period spans the most frames and the overlap search is finest. When a
// ratio change flips the order, frames already inside the pipeline are
// finished in the old order first.
//
// Both channel count and sample rate must be configured before samples are
// accepted. At end of stream [Processor.Flush] pushes the tail through the
// pipeline and trims the output to the expected length.
//
// Tuning knobs of the stretcher and resampler are exposed as an enumerated
// settings table, see [SettingID].
//
// A Processor is not safe for concurrent use. Distinct processors share no
// state.
package processor
