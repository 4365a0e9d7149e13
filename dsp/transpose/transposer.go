package transpose

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/filter/fir"
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/dsp/window"
)

// ErrInvalidRate indicates a non-positive or non-finite rate.
var ErrInvalidRate = errors.New("transpose: rate must be positive and finite")

const (
	// DefaultAntiAliasLength is the default anti-alias FIR length in taps.
	DefaultAntiAliasLength = 64
	// MinAntiAliasLength and MaxAntiAliasLength bound the FIR length.
	MinAntiAliasLength = 8
	MaxAntiAliasLength = 128

	rateIdentityEps = 1e-9

	maxDrainChunks = 4096
)

type config struct {
	kernel    interp.Kernel
	antiAlias bool
	aaLength  int
	aaWindow  window.Type
	aaOpts    []window.Option
}

func defaultConfig() config {
	return config{
		kernel:    interp.Cubic{},
		antiAlias: true,
		aaLength:  DefaultAntiAliasLength,
		aaWindow:  window.TypeHamming,
	}
}

// Option configures a Transposer.
type Option func(*config)

// WithKernel selects the interpolation kernel. Nil is ignored.
func WithKernel(k interp.Kernel) Option {
	return func(cfg *config) {
		if k != nil {
			cfg.kernel = k
		}
	}
}

// WithAntiAlias enables or disables the anti-alias filter.
func WithAntiAlias(enabled bool) Option {
	return func(cfg *config) {
		cfg.antiAlias = enabled
	}
}

// WithAntiAliasLength sets the anti-alias FIR length. See
// [Transposer.SetAntiAliasLength] for rounding rules.
func WithAntiAliasLength(taps int) Option {
	return func(cfg *config) {
		cfg.aaLength = normalizeAALength(taps)
	}
}

// WithAntiAliasWindow selects the window of the anti-alias FIR design. The
// default is a Hamming window; window.TypeKaiser with window.WithBeta trades
// transition width for stopband attenuation.
func WithAntiAliasWindow(win window.Type, opts ...window.Option) Option {
	return func(cfg *config) {
		cfg.aaWindow = win
		cfg.aaOpts = opts
	}
}

// Transposer resamples an interleaved stream by a fractional rate.
//
// Transposer is not safe for concurrent use.
type Transposer struct {
	channels int
	rate     float64
	cfg      config

	aa       *fir.Filter
	aaBefore bool

	input   *buffer.FIFO
	pending *buffer.FIFO // interpolator history and lookahead
	stage   *buffer.FIFO // interpolated frames awaiting the post filter
	output  *buffer.FIFO

	backlog float64 // output frames owed for input seen since the last drain

	primed bool
	idx    int     // integer read position in pending, in frames
	frac   float64 // fractional read position in [0, 1)
	taps   []float64
}

// New returns a Transposer at rate 1. Channel counts below one are clamped
// to one.
func New(channels int, opts ...Option) *Transposer {
	if channels < 1 {
		channels = 1
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	t := &Transposer{
		channels: channels,
		rate:     1,
		cfg:      cfg,
		input:    buffer.NewFIFO(channels),
		pending:  buffer.NewFIFO(channels),
		stage:    buffer.NewFIFO(channels),
		output:   buffer.NewFIFO(channels),
	}
	t.taps = make([]float64, cfg.kernel.Width())
	return t
}

// Channels returns the interleaved channel count.
func (t *Transposer) Channels() int { return t.channels }

// Rate returns the resampling rate.
func (t *Transposer) Rate() float64 { return t.rate }

// Kernel returns the interpolation kernel.
func (t *Transposer) Kernel() interp.Kernel { return t.cfg.kernel }

// AntiAlias reports whether the anti-alias filter is enabled.
func (t *Transposer) AntiAlias() bool { return t.cfg.antiAlias }

// AntiAliasLength returns the anti-alias FIR length in taps.
func (t *Transposer) AntiAliasLength() int { return t.cfg.aaLength }

// Input returns the FIFO the transposer consumes from.
func (t *Transposer) Input() *buffer.FIFO { return t.input }

// Output returns the FIFO the transposer produces into.
func (t *Transposer) Output() *buffer.FIFO { return t.output }

// SetRate sets the resampling rate. Rates above one shorten the stream and
// raise pitch.
func (t *Transposer) SetRate(rate float64) error {
	if !core.IsFinitePositive(rate) {
		return fmt.Errorf("%w: %f", ErrInvalidRate, rate)
	}
	if rate == t.rate {
		return nil
	}
	t.rate = rate
	t.aa = nil
	return nil
}

// SetChannels changes the channel count. All buffered content and filter
// state is discarded when the count changes.
func (t *Transposer) SetChannels(channels int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d", buffer.ErrInvalidChannels, channels)
	}
	if channels == t.channels {
		return nil
	}
	t.channels = channels
	for _, f := range []*buffer.FIFO{t.input, t.pending, t.stage, t.output} {
		_ = f.SetChannels(channels)
	}
	t.aa = nil
	t.Clear()
	return nil
}

// SetKernel replaces the interpolation kernel and restarts interpolation
// history. Nil is ignored.
func (t *Transposer) SetKernel(k interp.Kernel) {
	if k == nil {
		return
	}
	t.cfg.kernel = k
	t.taps = make([]float64, k.Width())
	t.resetInterpolator()
}

// SetAntiAlias enables or disables the anti-alias filter.
func (t *Transposer) SetAntiAlias(enabled bool) {
	if enabled != t.cfg.antiAlias {
		t.cfg.antiAlias = enabled
		t.aa = nil
	}
}

// SetAntiAliasLength sets the anti-alias FIR length. The value is clamped to
// [MinAntiAliasLength, MaxAntiAliasLength] and rounded down to a multiple
// of four.
func (t *Transposer) SetAntiAliasLength(taps int) {
	taps = normalizeAALength(taps)
	if taps != t.cfg.aaLength {
		t.cfg.aaLength = taps
		t.aa = nil
	}
}

func normalizeAALength(taps int) int {
	taps = core.ClampInt(taps, MinAntiAliasLength, MaxAntiAliasLength)
	return taps - taps%4
}

// Latency returns the approximate processing delay in input frames.
func (t *Transposer) Latency() int {
	if t.passthrough() {
		return 0
	}
	lat := t.cfg.kernel.Width() / 2
	if t.cfg.antiAlias {
		aa := t.cfg.aaLength / 2
		if t.rate < 1 {
			aa = int(math.Ceil(float64(aa) * t.rate))
		}
		lat += aa
	}
	return lat
}

// Buffered returns the number of input frames held but not yet turned into
// output. The fractional read position is included, so the count may be
// fractional.
func (t *Transposer) Buffered() float64 {
	n := float64(t.input.Len())
	if t.primed {
		if rem := float64(t.pending.Len()-t.idx) - t.frac; rem > 0 {
			n += rem
		}
	}
	return n
}

// Put appends interleaved samples to the input and processes them.
func (t *Transposer) Put(samples []float64) {
	t.input.Append(samples)
	t.Process()
}

// Process resamples all buffered input as far as kernel lookahead allows.
func (t *Transposer) Process() {
	t.backlog += float64(t.input.Len()) / t.rate
	if t.passthrough() {
		n := t.drainInterpolator()
		n += t.output.MoveFrom(t.input)
		t.backlog -= float64(n)
		return
	}
	if t.input.Len() == 0 {
		return
	}
	t.ensureFilter()

	if !t.primed {
		// Pre-roll puts the first input frame at the kernel centre.
		t.pending.AppendSilence(len(t.taps)/2 - 1)
		t.idx = len(t.taps)/2 - 1
		t.frac = 0
		t.primed = true
	}
	if t.aa != nil && t.aaBefore {
		filterInto(t.aa, t.pending, t.input)
	} else {
		t.pending.MoveFrom(t.input)
	}

	if t.aa != nil && !t.aaBefore {
		t.interpolate(t.stage)
		t.backlog -= float64(filterInto(t.aa, t.output, t.stage))
		return
	}
	t.backlog -= float64(t.interpolate(t.output))
}

// Drain finishes all buffered input at the current rate. It appends as many
// output frames as the input seen since the last drain or clear implies,
// feeding silence for kernel and filter lookahead, and then resets
// interpolation and filter state. Produced output is kept.
func (t *Transposer) Drain() {
	t.Process()
	owed := int(math.Floor(t.backlog + 0.5))
	if owed > 0 && !t.passthrough() {
		pad := len(t.taps) + t.cfg.aaLength
		start := t.output.Len()
		for i := 0; i < maxDrainChunks && t.output.Len()-start < owed; i++ {
			t.input.AppendSilence(pad)
			t.Process()
		}
		t.output.Truncate(start + owed)
	}
	t.input.Clear()
	t.stage.Clear()
	t.resetInterpolator()
	if t.aa != nil {
		t.aa.Reset()
	}
	t.backlog = 0
}

// Clear drops buffered frames, interpolation history and filter state.
func (t *Transposer) Clear() {
	t.input.Clear()
	t.stage.Clear()
	t.output.Clear()
	t.resetInterpolator()
	if t.aa != nil {
		t.aa.Reset()
	}
	t.backlog = 0
}

func (t *Transposer) passthrough() bool {
	return core.NearlyEqual(t.rate, 1, rateIdentityEps)
}

// ensureFilter (re)designs the anti-alias filter for the current rate.
func (t *Transposer) ensureFilter() {
	if !t.cfg.antiAlias {
		t.aa = nil
		return
	}
	if t.aa != nil {
		return
	}
	cutoff := 0.5 * math.Min(t.rate, 1/t.rate)
	coeffs, err := fir.Lowpass(cutoff, t.cfg.aaLength, t.cfg.aaWindow, t.cfg.aaOpts...)
	if err != nil {
		return
	}
	t.aa = fir.New(coeffs, t.channels)
	t.aaBefore = t.rate > 1
}

// filterInto runs every frame of src through f into dst, empties src and
// returns the number of frames written.
func filterInto(f *fir.Filter, dst, src *buffer.FIFO) int {
	n := src.Len()
	if n == 0 {
		return 0
	}
	out := dst.Reserve(n)
	n = f.ProcessBlockTo(out, src.Frames())
	dst.Commit(n)
	src.Clear()
	return n
}

// interpolate emits every output frame whose kernel support lies inside
// pending, discards history the kernel no longer needs and returns the number
// of frames emitted.
func (t *Transposer) interpolate(dst *buffer.FIFO) int {
	ch := t.channels
	width := len(t.taps)
	half := width / 2

	frames := t.pending.Frames()
	avail := t.pending.Len()
	produced := 0
	if avail > 0 {
		est := int(float64(avail)/t.rate) + 1
		out := dst.Reserve(est)
		for produced < est {
			if t.idx+half >= avail {
				break
			}
			base := (t.idx - half + 1) * ch
			for c := 0; c < ch; c++ {
				for k := range t.taps {
					t.taps[k] = frames[base+k*ch+c]
				}
				out[produced*ch+c] = t.cfg.kernel.Interpolate(t.frac, t.taps)
			}
			produced++
			t.advance()
		}
		dst.Commit(produced)
	}

	// Dropping history moves idx only, so frac never depends on chunking.
	if drop := t.idx - (half - 1); drop > 0 {
		t.idx -= t.pending.Consume(drop)
	}
	return produced
}

// advance steps the read position by rate, carrying whole frames from frac
// into idx.
func (t *Transposer) advance() {
	t.frac += t.rate
	whole := int(t.frac)
	t.idx += whole
	t.frac -= float64(whole)
}

// drainInterpolator forwards unread pending frames to the output, resets
// interpolation and returns the number of frames forwarded. It runs when the
// rate returns to one.
func (t *Transposer) drainInterpolator() int {
	if !t.primed {
		return 0
	}
	start := t.idx
	if t.frac > 0 {
		start++
	}
	n := 0
	if start < t.pending.Len() {
		n = t.output.Append(t.pending.Frames()[start*t.channels:])
	}
	t.resetInterpolator()
	return n
}

func (t *Transposer) resetInterpolator() {
	t.pending.Clear()
	t.idx = 0
	t.frac = 0
	t.primed = false
}
