package stretch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by Stretcher configuration.
var (
	ErrInvalidTempo     = errors.New("stretch: tempo must be positive and finite")
	ErrInvalidParameter = errors.New("stretch: invalid parameter")
)

const (
	defaultSampleRate = 44100
	defaultOverlapMs  = 8

	minOverlapFrames = 16
	tempoIdentityEps = 1e-9

	drainChunkFrames = 128
	maxDrainChunks   = 4096

	// Auto-sequence interpolation runs between these tempos.
	autoTempoLow  = 0.5
	autoTempoHigh = 2.0
)

// Preset holds the sequence and seek-window lengths, in milliseconds, used
// at the low and high ends of the automatic tempo range.
type Preset struct {
	SequenceLow, SequenceHigh float64
	SeekLow, SeekHigh         float64
}

// Automatic length presets.
var (
	MusicPreset  = Preset{SequenceLow: 125, SequenceHigh: 50, SeekLow: 25, SeekHigh: 15}
	SpeechPreset = Preset{SequenceLow: 60, SequenceHigh: 30, SeekLow: 15, SeekHigh: 10}
)

func (p Preset) at(tempo float64) (sequenceMs, seekMs float64) {
	lerp := func(lo, hi float64) float64 {
		k := (hi - lo) / (autoTempoHigh - autoTempoLow)
		v := lo + k*(tempo-autoTempoLow)
		return core.Clamp(v, math.Min(lo, hi), math.Max(lo, hi))
	}
	return lerp(p.SequenceLow, p.SequenceHigh), lerp(p.SeekLow, p.SeekHigh)
}

// Stretcher changes the tempo of an interleaved multi-channel stream
// without changing its pitch.
//
// Stretcher is not safe for concurrent use.
type Stretcher struct {
	channels   int
	sampleRate int
	tempo      float64

	sequenceMs int // 0 = automatic
	seekMs     int // 0 = automatic
	overlapMs  int
	preset     Preset
	monoSeek   bool
	seeker     Seeker

	sequenceLen int
	seekLen     int
	overlapLen  int
	nominalSkip float64
	skipFract   float64
	sampleReq   int

	held    int     // input frames already accounted for
	backlog float64 // output frames owed for accounted input

	first   bool
	mid     []float64 // overlapLen frames awaiting cross-fade
	fadeIn  []float64 // expanded per sample
	fadeOut []float64
	weight  []float64 // reference weighting, expanded per sample
	ref     []float64
	mixed   []float64
	monoWin []float64

	input  *buffer.FIFO
	output *buffer.FIFO
}

// New returns a Stretcher at tempo 1 with automatic music-tuned lengths and
// an [ExhaustiveSeeker]. Channel counts below one are clamped to one and a
// non-positive sample rate selects 44100 Hz.
func New(channels, sampleRate int) *Stretcher {
	if channels < 1 {
		channels = 1
	}
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	s := &Stretcher{
		channels:   channels,
		sampleRate: sampleRate,
		tempo:      1,
		overlapMs:  defaultOverlapMs,
		preset:     MusicPreset,
		seeker:     ExhaustiveSeeker{},
		first:      true,
		input:      buffer.NewFIFO(channels),
		output:     buffer.NewFIFO(channels),
	}
	s.rebuild()
	return s
}

// Channels returns the interleaved channel count.
func (s *Stretcher) Channels() int { return s.channels }

// SampleRate returns the sample rate in Hz used to convert lengths.
func (s *Stretcher) SampleRate() int { return s.sampleRate }

// Tempo returns the tempo ratio.
func (s *Stretcher) Tempo() float64 { return s.tempo }

// Input returns the FIFO the stretcher consumes from.
func (s *Stretcher) Input() *buffer.FIFO { return s.input }

// Output returns the FIFO the stretcher produces into.
func (s *Stretcher) Output() *buffer.FIFO { return s.output }

// SequenceLength returns the current sequence length in frames.
func (s *Stretcher) SequenceLength() int { return s.sequenceLen }

// SeekLength returns the current seek-window length in frames.
func (s *Stretcher) SeekLength() int { return s.seekLen }

// OverlapLength returns the current cross-fade length in frames.
func (s *Stretcher) OverlapLength() int { return s.overlapLen }

// InputRequirement returns the number of buffered input frames needed before
// an iteration can run.
func (s *Stretcher) InputRequirement() int { return s.sampleReq }

// Latency returns the number of input frames held back before the first
// output, or 0 at unity tempo.
func (s *Stretcher) Latency() int {
	if s.passthrough() {
		return 0
	}
	return s.sampleReq
}

// NominalInput returns the average number of input frames consumed per
// iteration.
func (s *Stretcher) NominalInput() int { return int(s.nominalSkip + 0.5) }

// OutputBatch returns the number of frames emitted per iteration.
func (s *Stretcher) OutputBatch() int { return s.sequenceLen - s.overlapLen }

// Seeker returns the active similarity search.
func (s *Stretcher) Seeker() Seeker { return s.seeker }

// SetSeeker replaces the similarity search. A nil seeker selects
// [ExhaustiveSeeker].
func (s *Stretcher) SetSeeker(seeker Seeker) {
	if seeker == nil {
		seeker = ExhaustiveSeeker{}
	}
	s.seeker = seeker
}

// SetMonoSeek restricts the similarity search to the first channel.
func (s *Stretcher) SetMonoSeek(mono bool) { s.monoSeek = mono }

// MonoSeek reports whether the similarity search uses the first channel only.
func (s *Stretcher) MonoSeek() bool { return s.monoSeek }

// SetPreset selects the automatic length preset.
func (s *Stretcher) SetPreset(p Preset) {
	s.preset = p
	s.rebuild()
}

// SetChannels changes the channel count. Buffered content and overlap
// history are discarded when the count changes.
func (s *Stretcher) SetChannels(channels int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d", buffer.ErrInvalidChannels, channels)
	}
	if channels == s.channels {
		return nil
	}
	s.channels = channels
	_ = s.input.SetChannels(channels)
	_ = s.output.SetChannels(channels)
	s.rebuild()
	s.Clear()
	return nil
}

// SetSampleRate changes the sample rate used to convert millisecond lengths.
func (s *Stretcher) SetSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive: %d", ErrInvalidParameter, sampleRate)
	}
	s.sampleRate = sampleRate
	s.rebuild()
	return nil
}

// SetTempo sets the tempo ratio. 1 leaves the stream untouched, 2 plays
// twice as fast.
func (s *Stretcher) SetTempo(tempo float64) error {
	if !core.IsFinitePositive(tempo) {
		return fmt.Errorf("%w: %f", ErrInvalidTempo, tempo)
	}
	s.tempo = tempo
	s.rebuild()
	return nil
}

// SetParameters sets the sequence, seek-window and overlap lengths in
// milliseconds. A zero sequence or seek length selects it automatically
// from the tempo.
func (s *Stretcher) SetParameters(sequenceMs, seekMs, overlapMs int) error {
	if sequenceMs < 0 || seekMs < 0 || overlapMs < 1 {
		return fmt.Errorf("%w: sequence=%d seek=%d overlap=%d ms",
			ErrInvalidParameter, sequenceMs, seekMs, overlapMs)
	}
	s.sequenceMs = sequenceMs
	s.seekMs = seekMs
	s.overlapMs = overlapMs
	s.rebuild()
	return nil
}

// Parameters returns the configured sequence, seek-window and overlap lengths
// in milliseconds. Zero means automatic.
func (s *Stretcher) Parameters() (sequenceMs, seekMs, overlapMs int) {
	return s.sequenceMs, s.seekMs, s.overlapMs
}

// Put appends interleaved samples to the input and processes them.
func (s *Stretcher) Put(samples []float64) {
	s.input.Append(samples)
	s.Process()
}

// Process runs as many iterations as the buffered input allows.
func (s *Stretcher) Process() {
	if added := s.input.Len() - s.held; added > 0 {
		s.backlog += float64(added) / s.tempo
	}
	defer func() { s.held = s.input.Len() }()

	if s.passthrough() {
		s.first = true
		s.skipFract = 0
		s.backlog -= float64(s.output.MoveFrom(s.input))
		return
	}

	ch := s.channels
	ov := s.overlapLen
	seq := s.sequenceLen
	for s.input.Len() >= s.sampleReq {
		in := s.input.Frames()
		if s.first {
			body := seq - ov
			s.output.Append(in[:body*ch])
			s.backlog -= float64(body)
			copy(s.mid, in[body*ch:seq*ch])
			s.first = false

			// Centre the first search so later offsets can move both ways.
			s.skipFract -= math.Round(0.5 * float64(s.seekLen))
			if s.skipFract < -s.nominalSkip {
				s.skipFract = -s.nominalSkip
			}
		} else {
			offset := s.seek(in)
			dst := s.output.Reserve(seq - ov)
			s.crossFade(dst[:ov*ch], in[offset*ch:(offset+ov)*ch])
			copy(dst[ov*ch:], in[(offset+ov)*ch:(offset+seq-ov)*ch])
			s.output.Commit(seq - ov)
			s.backlog -= float64(seq - ov)
			copy(s.mid, in[(offset+seq-ov)*ch:(offset+seq)*ch])
		}

		s.skipFract += s.nominalSkip
		skip := int(s.skipFract)
		s.skipFract -= float64(skip)
		s.input.Consume(skip)
	}
}

// Drain finishes all buffered input at the current tempo. It appends as many
// output frames as the input seen since the last drain or clear implies,
// padding with silence where the overlap search needs lookahead, and then
// resets the input side like [Stretcher.ClearInput].
func (s *Stretcher) Drain() {
	s.Process()
	owed := int(math.Floor(s.backlog + 0.5))
	if owed > 0 && !s.passthrough() {
		start := s.output.Len()
		for i := 0; i < maxDrainChunks && s.output.Len()-start < owed; i++ {
			s.input.AppendSilence(drainChunkFrames)
			s.Process()
		}
		s.output.Truncate(start + owed)
	}
	s.ClearInput()
}

// Clear drops all buffered frames and overlap history.
func (s *Stretcher) Clear() {
	s.output.Clear()
	s.ClearInput()
}

// ClearInput drops buffered input and overlap history but keeps produced
// output.
func (s *Stretcher) ClearInput() {
	s.input.Clear()
	core.Zero(s.mid)
	s.first = true
	s.skipFract = 0
	s.held = 0
	s.backlog = 0
}

func (s *Stretcher) passthrough() bool {
	return core.NearlyEqual(s.tempo, 1, tempoIdentityEps)
}

// seek returns the best frame offset for the next sequence in in.
func (s *Stretcher) seek(in []float64) int {
	ch := s.channels
	ov := s.overlapLen
	span := s.seekLen - 1 + ov

	if !s.monoSeek || ch == 1 {
		vecmath.MulBlock(s.ref, s.mid, s.weight)
		return s.seeker.Seek(s.ref, in[:span*ch], ch, s.seekLen)
	}

	ref := s.ref[:ov]
	for i := range ref {
		ref[i] = s.mid[i*ch] * s.weight[i*ch]
	}
	win := s.monoWin[:span]
	for i := range win {
		win[i] = in[i*ch]
	}
	return s.seeker.Seek(ref, win, 1, s.seekLen)
}

// crossFade writes mid faded out plus next faded in to dst.
func (s *Stretcher) crossFade(dst, next []float64) {
	vecmath.MulBlock(dst, next, s.fadeIn)
	vecmath.MulBlock(s.mixed, s.mid, s.fadeOut)
	for i, v := range s.mixed {
		dst[i] += v
	}
}

// rebuild derives frame lengths from the millisecond settings, sample rate
// and tempo, and resizes the overlap state when the overlap length changes.
func (s *Stretcher) rebuild() {
	autoSeq, autoSeek := s.preset.at(s.tempo)
	seqMs := float64(s.sequenceMs)
	if s.sequenceMs == 0 {
		seqMs = autoSeq
	}
	seekMs := float64(s.seekMs)
	if s.seekMs == 0 {
		seekMs = autoSeek
	}

	rate := float64(s.sampleRate)
	ov := s.sampleRate * s.overlapMs / 1000
	if ov < minOverlapFrames {
		ov = minOverlapFrames
	}
	ov -= ov % 8

	seq := int(rate*seqMs/1000 + 0.5)
	if seq < 2*ov {
		seq = 2 * ov
	}
	seek := int(rate*seekMs/1000 + 0.5)
	if seek < 1 {
		seek = 1
	}

	s.sequenceLen = seq
	s.seekLen = seek
	s.nominalSkip = s.tempo * float64(seq-ov)

	intSkip := int(math.Ceil(s.nominalSkip))
	s.sampleReq = max(intSkip+ov, seq) + seek

	if ov != s.overlapLen || len(s.mid) != ov*s.channels {
		s.overlapLen = ov
		s.resizeOverlap()
	}
	s.growMonoWindow()
}

func (s *Stretcher) resizeOverlap() {
	ch := s.channels
	ov := s.overlapLen

	s.mid = make([]float64, ov*ch)
	s.ref = make([]float64, ov*ch)
	s.mixed = make([]float64, ov*ch)
	s.fadeIn = make([]float64, ov*ch)
	s.fadeOut = make([]float64, ov*ch)
	s.weight = make([]float64, ov*ch)

	fadeIn, fadeOut, _ := window.Fade(ov)
	weight := window.Generate(window.TypeWelch, ov)
	for i := 0; i < ov; i++ {
		for c := 0; c < ch; c++ {
			s.fadeIn[i*ch+c] = fadeIn[i]
			s.fadeOut[i*ch+c] = fadeOut[i]
			s.weight[i*ch+c] = weight[i]
		}
	}
}

func (s *Stretcher) growMonoWindow() {
	if need := s.seekLen - 1 + s.overlapLen; cap(s.monoWin) < need {
		s.monoWin = make([]float64, need)
	} else {
		s.monoWin = s.monoWin[:need]
	}
}
