package processor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/dsp/transpose"
)

const (
	// MinChannels and MaxChannels bound the channel count.
	MinChannels = 1
	MaxChannels = 16

	flushChunkFrames = 128
	flushBaseIters   = 200

	// Tempo changes outside this band are accepted with degraded quality.
	minRecommendedTempo = 0.5
	maxRecommendedTempo = 2.0
)

// Processor changes rate, tempo and pitch of an interleaved stream.
type Processor struct {
	logger *slog.Logger

	channels   int
	sampleRate int

	rate  float64
	tempo float64
	pitch float64

	effRate        float64
	effTempo       float64
	transposeFirst bool

	settings settings
	seeker   stretch.Seeker

	stretcher  *stretch.Stretcher
	transposer *transpose.Transposer
	output     *buffer.FIFO

	in      []float64
	out     []float64
	silence []float64

	expectedOut float64
	received    int
	closed      bool
}

// New returns a Processor with rate, tempo and pitch at 1 and default
// settings. Without WithChannels and WithSampleRate it starts unconfigured.
func New(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tr := transpose.New(1,
		transpose.WithKernel(cfg.kernel),
		transpose.WithAntiAliasWindow(cfg.aaWindow, cfg.aaOpts...))
	p := &Processor{
		logger:     logger,
		rate:       1,
		tempo:      1,
		pitch:      1,
		settings:   defaultSettings(),
		seeker:     cfg.seeker,
		stretcher:  stretch.New(1, 0),
		transposer: tr,
		output:     buffer.NewFIFO(1),
	}
	p.applySettings()
	p.applyRatios()

	if cfg.channels != 0 {
		if err := p.SetChannels(cfg.channels); err != nil {
			return nil, err
		}
	}
	if cfg.sampleRate != 0 {
		if err := p.SetSampleRate(cfg.sampleRate); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Channels returns the channel count, or 0 if unset.
func (p *Processor) Channels() int { return p.channels }

// SampleRate returns the sample rate in Hz, or 0 if unset.
func (p *Processor) SampleRate() int { return p.sampleRate }

// Rate returns the playback rate ratio.
func (p *Processor) Rate() float64 { return p.rate }

// Tempo returns the tempo ratio.
func (p *Processor) Tempo() float64 { return p.tempo }

// Pitch returns the pitch ratio.
func (p *Processor) Pitch() float64 { return p.pitch }

// InputOutputRatio returns the expected output duration relative to the
// input duration, 1/(rate*tempo).
func (p *Processor) InputOutputRatio() float64 { return 1 / (p.rate * p.tempo) }

// SetChannels sets the channel count. Changing it discards all buffered
// content.
func (p *Processor) SetChannels(n int) error {
	if p.closed {
		return ErrClosed
	}
	if n < MinChannels || n > MaxChannels {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidChannels, n, MinChannels, MaxChannels)
	}
	if n == p.channels {
		return nil
	}
	p.channels = n
	_ = p.stretcher.SetChannels(n)
	_ = p.transposer.SetChannels(n)
	_ = p.output.SetChannels(n)
	p.silence = make([]float64, flushChunkFrames*n)
	p.resetAccounting()
	p.logger.Debug("processor channels set", "channels", n)
	return nil
}

// SetSampleRate sets the sample rate in Hz.
func (p *Processor) SetSampleRate(hz int) error {
	if p.closed {
		return ErrClosed
	}
	if hz <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, hz)
	}
	if hz == p.sampleRate {
		return nil
	}
	if err := p.stretcher.SetSampleRate(hz); err != nil {
		return err
	}
	p.sampleRate = hz
	p.logger.Debug("processor sample rate set", "sample_rate", hz)
	return nil
}

// SetRate sets the playback rate ratio. 1 is unchanged; 2 doubles both speed
// and pitch.
func (p *Processor) SetRate(rate float64) error {
	return p.setRatios(rate, p.tempo, p.pitch)
}

// SetRateChange sets the playback rate as a percent change, -50 halves it.
func (p *Processor) SetRateChange(percent float64) error {
	return p.SetRate(core.PercentToRatio(percent))
}

// SetTempo sets the tempo ratio. 1 is unchanged; 2 plays twice as fast at
// the same pitch.
func (p *Processor) SetTempo(tempo float64) error {
	return p.setRatios(p.rate, tempo, p.pitch)
}

// SetTempoChange sets the tempo as a percent change, +100 doubles it.
func (p *Processor) SetTempoChange(percent float64) error {
	return p.SetTempo(core.PercentToRatio(percent))
}

// SetPitch sets the pitch ratio. 1 is unchanged; 2 is one octave up.
func (p *Processor) SetPitch(pitch float64) error {
	return p.setRatios(p.rate, p.tempo, pitch)
}

// SetPitchOctaves sets the pitch as an octave offset from the original.
func (p *Processor) SetPitchOctaves(octaves float64) error {
	return p.SetPitch(core.OctavesToRatio(octaves))
}

// SetPitchSemiTones sets the pitch as a semitone offset from the original.
func (p *Processor) SetPitchSemiTones(semitones float64) error {
	return p.SetPitch(core.SemitonesToRatio(semitones))
}

func (p *Processor) setRatios(rate, tempo, pitch float64) error {
	if p.closed {
		return ErrClosed
	}
	for _, v := range []float64{rate, tempo, pitch, rate * pitch, tempo / pitch, rate * tempo} {
		if !core.IsFinitePositive(v) {
			return fmt.Errorf("%w: rate=%g tempo=%g pitch=%g", ErrInvalidRatio, rate, tempo, pitch)
		}
	}
	p.rate, p.tempo, p.pitch = rate, tempo, pitch
	p.applyRatios()
	return nil
}

// applyRatios picks the stage order and pushes effective ratios to the
// stages. Frames buffered under the old order are finished with the old
// ratios first.
func (p *Processor) applyRatios() {
	effRate := p.rate * p.pitch
	if first := effRate <= 1; first != p.transposeFirst {
		p.finishStages()
		p.transposeFirst = first
		p.logger.Debug("processor stage order changed", "transpose_first", first,
			"effective_rate", effRate)
	}

	p.effRate = effRate
	p.effTempo = p.tempo / p.pitch
	_ = p.transposer.SetRate(p.effRate)
	_ = p.stretcher.SetTempo(p.effTempo)

	if p.effTempo < minRecommendedTempo || p.effTempo > maxRecommendedTempo {
		p.logger.Warn("processor tempo outside recommended range",
			"effective_tempo", p.effTempo, "min", minRecommendedTempo, "max", maxRecommendedTempo)
	}
}

// SetSetting updates one tuning parameter. Unknown ids, read-only ids and
// out-of-range values are rejected with a *SettingError and leave the
// processor unchanged.
func (p *Processor) SetSetting(id SettingID, value int) error {
	if p.closed {
		return ErrClosed
	}
	v, err := p.settings.validate(id, value)
	if err != nil {
		return err
	}
	if p.settings[id] == v {
		return nil
	}
	p.settings[id] = v
	p.applySettings()
	p.logger.Debug("processor setting changed", "setting", id.String(), "value", v)
	return nil
}

// Setting returns the current value of a setting, or SettingUnknown for an
// unknown id.
func (p *Processor) Setting(id SettingID) int {
	switch id {
	case SettingNominalInputSequence:
		n := float64(p.stretcher.NominalInput())
		if p.transposeFirst {
			n *= p.effRate
		}
		return int(n + 0.5)
	case SettingNominalOutputSequence:
		n := float64(p.stretcher.OutputBatch())
		if !p.transposeFirst {
			n /= p.effRate
		}
		return int(n + 0.5)
	case SettingInitialLatency:
		return p.latency()
	}
	if !id.valid() {
		return SettingUnknown
	}
	return p.settings[id]
}

func (p *Processor) applySettings() {
	s := &p.settings
	p.transposer.SetAntiAlias(s.flag(SettingUseAAFilter))
	p.transposer.SetAntiAliasLength(s[SettingAAFilterLength])

	if s.flag(SettingUseQuickSeek) {
		p.stretcher.SetSeeker(stretch.QuickSeeker{})
	} else {
		p.stretcher.SetSeeker(p.seeker)
	}
	p.stretcher.SetMonoSeek(s.flag(SettingSingleChannelSeek))
	if s.flag(SettingSpeechOptimized) {
		p.stretcher.SetPreset(stretch.SpeechPreset)
	} else {
		p.stretcher.SetPreset(stretch.MusicPreset)
	}
	_ = p.stretcher.SetParameters(s[SettingSequenceMs], s[SettingSeekWindowMs], s[SettingOverlapMs])
}

// latency returns the pipeline delay in input frames.
func (p *Processor) latency() int {
	st := float64(p.stretcher.Latency())
	tr := float64(p.transposer.Latency())
	if p.transposeFirst {
		return int(tr + st*p.effRate + 0.5)
	}
	return int(st + tr*p.effTempo + 0.5)
}

func (p *Processor) requireConfigured(op string) error {
	switch {
	case p.channels == 0 && p.sampleRate == 0:
		return &ConfigError{Op: op, Missing: "channels and sample rate"}
	case p.channels == 0:
		return &ConfigError{Op: op, Missing: "channels"}
	case p.sampleRate == 0:
		return &ConfigError{Op: op, Missing: "sample rate"}
	}
	return nil
}

// PutSamples feeds frames interleaved frames from samples into the pipeline.
// samples must hold at least frames*Channels() values.
func (p *Processor) PutSamples(samples []float32, frames int) error {
	if p.closed {
		return ErrClosed
	}
	if err := p.requireConfigured("PutSamples"); err != nil {
		return err
	}
	if frames < 0 || len(samples) < frames*p.channels {
		return fmt.Errorf("%w: %d values for %d frames of %d channels",
			ErrShortBuffer, len(samples), frames, p.channels)
	}
	if frames == 0 {
		return nil
	}

	p.in = core.Widen(p.in, samples[:frames*p.channels])
	p.expectedOut += float64(frames) / (p.rate * p.tempo)
	p.process(p.in)
	return nil
}

// process runs x through both stages in the current order and collects the
// result in the output FIFO.
func (p *Processor) process(x []float64) {
	st, tr := p.stretcher, p.transposer
	if p.transposeFirst {
		tr.Put(x)
		st.Input().MoveFrom(tr.Output())
		st.Process()
		p.output.MoveFrom(st.Output())
		return
	}
	st.Put(x)
	tr.Input().MoveFrom(st.Output())
	tr.Process()
	p.output.MoveFrom(tr.Output())
}

// finishStages drains both stages in the current order, so frames the first
// stage has already transformed never pass through it again.
func (p *Processor) finishStages() {
	st, tr := p.stretcher, p.transposer
	if p.transposeFirst {
		tr.Drain()
		st.Input().MoveFrom(tr.Output())
		st.Drain()
		p.output.MoveFrom(st.Output())
		return
	}
	st.Drain()
	tr.Input().MoveFrom(st.Output())
	tr.Drain()
	p.output.MoveFrom(tr.Output())
}

// ReceiveSamples moves up to maxFrames finished frames into dst and returns
// the number of frames moved. The count is further limited by len(dst). A
// nil dst discards frames instead.
func (p *Processor) ReceiveSamples(dst []float32, maxFrames int) int {
	if p.closed || maxFrames <= 0 {
		return 0
	}
	if dst == nil {
		n := p.output.Consume(maxFrames)
		p.received += n
		return n
	}

	ch := p.output.Channels()
	if n := len(dst) / ch; maxFrames > n {
		maxFrames = n
	}
	if avail := p.output.Len(); maxFrames > avail {
		maxFrames = avail
	}
	if maxFrames == 0 {
		return 0
	}
	p.out = core.EnsureLen(p.out, maxFrames*ch)
	n := p.output.Read(p.out, maxFrames)
	core.Narrow(dst, p.out[:n*ch])
	p.received += n
	return n
}

// NumSamples returns the number of frames ready to be received.
func (p *Processor) NumSamples() int {
	if p.closed {
		return 0
	}
	return p.output.Len()
}

// NumUnprocessedSamples returns the number of frames accepted but not yet
// turned into output, in input frames.
func (p *Processor) NumUnprocessedSamples() int {
	if p.closed {
		return 0
	}
	st := float64(p.stretcher.Input().Len())
	tr := p.transposer.Buffered()
	// Frames held by the second stage were rescaled by the first.
	if p.transposeFirst {
		return int(tr + st*p.effRate + 0.5)
	}
	return int(st + tr*p.effTempo + 0.5)
}

// IsEmpty reports whether no frames are ready to be received.
func (p *Processor) IsEmpty() bool { return p.NumSamples() == 0 }

// Flush pushes all buffered input through the pipeline by feeding silence,
// then trims the output to the length implied by the frames put so far and
// resets the stage inputs. Use it at end of stream; mid-stream calls leave
// an audible gap.
func (p *Processor) Flush() error {
	if p.closed {
		return ErrClosed
	}
	if p.requireConfigured("Flush") != nil {
		return nil
	}

	want := int(math.Floor(p.expectedOut+0.5)) - p.received
	if want < 0 {
		want = 0
	}
	maxIters := flushBaseIters + 4*p.latency()/flushChunkFrames

	iters := 0
	for p.output.Len() < want && iters < maxIters {
		p.process(p.silence)
		iters++
	}
	p.output.Truncate(want)

	p.transposer.Clear()
	p.stretcher.ClearInput()
	p.logger.Debug("processor flushed", "frames", p.output.Len(), "wanted", want,
		"iterations", iters)
	return nil
}

// Clear drops all buffered content and stage state. Configuration, ratios
// and settings are kept.
func (p *Processor) Clear() {
	if p.closed {
		return
	}
	p.output.Clear()
	p.stretcher.Clear()
	p.transposer.Clear()
	p.resetAccounting()
}

func (p *Processor) resetAccounting() {
	p.expectedOut = 0
	p.received = 0
}

// Close releases all buffers. Later calls return ErrClosed or report no
// frames. Close is idempotent.
func (p *Processor) Close() error {
	if p.closed {
		return nil
	}
	p.stretcher.Clear()
	p.transposer.Clear()
	p.output.Release()
	p.in, p.out, p.silence = nil, nil, nil
	p.closed = true
	return nil
}
