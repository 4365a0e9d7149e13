package transpose

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/interp"
	"github.com/cwbudde/algo-stretch/dsp/window"
	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func run(t *Transposer, x []float64, chunkFrames int) []float64 {
	ch := t.Channels()
	var out []float64
	for start := 0; start < len(x); start += chunkFrames * ch {
		end := start + chunkFrames*ch
		if end > len(x) {
			end = len(x)
		}
		t.Put(x[start:end])
		out = append(out, t.Output().Frames()...)
		t.Output().Clear()
	}
	return out
}

func TestPassthroughAtUnityRate(t *testing.T) {
	tr := New(2)
	x := testutil.DeterministicNoise(1, 1, 2*500)
	out := run(tr, x, 77)
	if len(out) != len(x) {
		t.Fatalf("len = %d, want %d", len(out), len(x))
	}
	for i := range x {
		if out[i] != x[i] {
			t.Fatalf("sample %d = %v, want %v", i, out[i], x[i])
		}
	}
	if tr.Latency() != 0 {
		t.Fatalf("Latency = %d at unity rate", tr.Latency())
	}
}

func TestLinearRampIsExact(t *testing.T) {
	tr := New(1, WithKernel(interp.Linear{}), WithAntiAlias(false))
	if err := tr.SetRate(0.5); err != nil {
		t.Fatal(err)
	}
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i)
	}
	out := run(tr, x, 13)
	if len(out) < 190 {
		t.Fatalf("len = %d, want about 198", len(out))
	}
	for k, v := range out {
		if want := 0.5 * float64(k); math.Abs(v-want) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", k, v, want)
		}
	}
}

func TestCubicRampIsExactAfterPreRoll(t *testing.T) {
	tr := New(1, WithAntiAlias(false))
	if err := tr.SetRate(1.5); err != nil {
		t.Fatal(err)
	}
	x := make([]float64, 300)
	for i := range x {
		x[i] = float64(i)
	}
	out := run(tr, x, 64)
	for k := 2; k < len(out); k++ {
		if want := 1.5 * float64(k); math.Abs(out[k]-want) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", k, out[k], want)
		}
	}
}

func TestOutputLength(t *testing.T) {
	const n = 20000
	x := testutil.DeterministicNoise(2, 1, n)
	kernels := []interp.Kernel{interp.Linear{}, interp.Cubic{}, interp.Lanczos{A: 3}}
	for _, rate := range []float64{0.5, 0.8, 1.25, 2} {
		for _, k := range kernels {
			tr := New(1, WithKernel(k))
			if err := tr.SetRate(rate); err != nil {
				t.Fatal(err)
			}
			out := run(tr, x, 1000)
			want := float64(n) / rate
			slack := float64(tr.Latency())/rate + 2
			if math.Abs(float64(len(out))-want) > slack+float64(k.Width()) {
				t.Errorf("rate %v %T: len = %d, want %.0f", rate, k, len(out), want)
			}
		}
	}
}

func TestChunkSizeIndependence(t *testing.T) {
	x := testutil.DeterministicNoise(4, 1, 2*5000)
	// 0.77 filters after interpolation, 1.37 before it.
	for _, rate := range []float64{0.77, 1.37} {
		var ref []float64
		for _, chunk := range []int{5000, 1024, 511, 3, 1} {
			tr := New(2, WithKernel(interp.Lanczos{A: 3}))
			if err := tr.SetRate(rate); err != nil {
				t.Fatal(err)
			}
			out := run(tr, x, chunk)
			if ref == nil {
				ref = out
				continue
			}
			if len(out) != len(ref) {
				t.Fatalf("rate %v chunk %d: len = %d, want %d", rate, chunk, len(out), len(ref))
			}
			for i := range ref {
				if out[i] != ref[i] {
					t.Fatalf("rate %v chunk %d: sample %d = %v, want %v",
						rate, chunk, i, out[i], ref[i])
				}
			}
		}
	}
}

func TestReadPositionStaysExactOverLongStreams(t *testing.T) {
	// A non-dyadic rate over many drops exposes any accumulated rounding in
	// the read position.
	const frames = 200000
	x := testutil.DeterministicNoise(9, 1, frames)
	var ref []float64
	for _, chunk := range []int{frames, 4093, 17} {
		tr := New(1)
		if err := tr.SetRate(0.9137); err != nil {
			t.Fatal(err)
		}
		out := run(tr, x, chunk)
		if ref == nil {
			ref = out
			continue
		}
		if len(out) != len(ref) {
			t.Fatalf("chunk %d: len = %d, want %d", chunk, len(out), len(ref))
		}
		for i := range ref {
			if out[i] != ref[i] {
				t.Fatalf("chunk %d: sample %d = %v, want %v", chunk, i, out[i], ref[i])
			}
		}
	}
}

func TestDrainEmitsOwedFrames(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		rate   float64
		opts   []Option
		want   int
	}{
		{"short up", 1000, 1.37, nil, 730},
		{"long down", 20000, 0.77, nil, 25974},
		{"no filter", 3000, 1.5, []Option{WithAntiAlias(false)}, 2000},
		{"unity", 640, 1, nil, 640},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(2, tt.opts...)
			if err := tr.SetRate(tt.rate); err != nil {
				t.Fatal(err)
			}
			x := testutil.DeterministicNoise(12, 1, 2*tt.frames)
			got := len(run(tr, x, 300)) / 2
			tr.Drain()
			got += tr.Output().Len()
			if got != tt.want {
				t.Fatalf("frames = %d, want %d", got, tt.want)
			}
			if tr.Buffered() != 0 {
				t.Fatalf("Buffered() = %v after Drain", tr.Buffered())
			}
		})
	}
}

func TestPitchScalesWithRate(t *testing.T) {
	const sr = 44100
	x := testutil.DeterministicSine(440, sr, 0.8, sr)
	for _, rate := range []float64{0.5, 1.5} {
		tr := New(1)
		if err := tr.SetRate(rate); err != nil {
			t.Fatal(err)
		}
		out := run(tr, x, 4096)
		f, err := testutil.DominantFrequency(out[1024:1024+16384], sr)
		if err != nil {
			t.Fatal(err)
		}
		if want := 440 * rate; math.Abs(f-want) > 0.01*want {
			t.Errorf("rate %v: dominant %v Hz, want %v", rate, f, want)
		}
	}
}

func TestAntiAliasAttenuatesFoldover(t *testing.T) {
	const sr = 44100
	// 15 kHz lies above the post-decimation Nyquist for rate 2.
	x := testutil.DeterministicSine(15000, sr, 1, sr/2)
	level := func(opts ...Option) float64 {
		tr := New(1, opts...)
		if err := tr.SetRate(2); err != nil {
			t.Fatal(err)
		}
		out := run(tr, x, 2048)
		return testutil.RMS(out[256:])
	}
	without := level(WithAntiAlias(false))

	tests := []struct {
		name string
		opts []Option
		max  float64
	}{
		{"hamming", nil, 0.1},
		{"kaiser", []Option{WithAntiAliasWindow(window.TypeKaiser, window.WithBeta(9))}, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if with := level(tt.opts...); !(with < tt.max*without) {
				t.Fatalf("anti-alias level %v not below %v of unfiltered %v", with, tt.max, without)
			}
		})
	}
}

func TestRateBackToUnityKeepsStream(t *testing.T) {
	tr := New(1, WithAntiAlias(false))
	if err := tr.SetRate(0.9); err != nil {
		t.Fatal(err)
	}
	run(tr, testutil.DeterministicNoise(6, 1, 1000), 100)
	if tr.Buffered() == 0 {
		t.Fatal("expected kernel lookahead to be buffered")
	}
	if err := tr.SetRate(1); err != nil {
		t.Fatal(err)
	}
	tr.Process()
	if tr.Buffered() != 0 {
		t.Fatalf("Buffered = %v after returning to unity", tr.Buffered())
	}
	if tr.Output().Len() == 0 {
		t.Fatal("lookahead frames were dropped")
	}
}

func TestAntiAliasLengthRounding(t *testing.T) {
	tests := []struct{ in, want int }{
		{64, 64}, {63, 60}, {7, 8}, {129, 128}, {10, 8},
	}
	for _, tt := range tests {
		tr := New(1)
		tr.SetAntiAliasLength(tt.in)
		if got := tr.AntiAliasLength(); got != tt.want {
			t.Errorf("SetAntiAliasLength(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if New(1, WithAntiAliasLength(33)).AntiAliasLength() != 32 {
		t.Fatal("WithAntiAliasLength did not round")
	}
}

func TestLatency(t *testing.T) {
	tr := New(1)
	if err := tr.SetRate(2); err != nil {
		t.Fatal(err)
	}
	if got := tr.Latency(); got != 2+32 {
		t.Fatalf("Latency = %d, want 34", got)
	}
	if err := tr.SetRate(0.5); err != nil {
		t.Fatal(err)
	}
	if got := tr.Latency(); got != 2+16 {
		t.Fatalf("Latency = %d, want 18", got)
	}
	tr.SetAntiAlias(false)
	if got := tr.Latency(); got != 2 {
		t.Fatalf("Latency = %d, want 2", got)
	}
}

func TestErrors(t *testing.T) {
	tr := New(1)
	for _, r := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if err := tr.SetRate(r); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("SetRate(%v) = %v", r, err)
		}
	}
	if tr.Rate() != 1 {
		t.Fatalf("Rate = %v after rejected updates", tr.Rate())
	}
	if err := tr.SetChannels(0); !errors.Is(err, buffer.ErrInvalidChannels) {
		t.Errorf("SetChannels(0) = %v", err)
	}
}

func TestClear(t *testing.T) {
	tr := New(2)
	if err := tr.SetRate(1.3); err != nil {
		t.Fatal(err)
	}
	x := testutil.DeterministicNoise(8, 1, 2*3000)
	first := run(tr, x, 500)
	tr.Clear()
	if tr.Buffered() != 0 || tr.Output().Len() != 0 {
		t.Fatal("Clear left buffered frames")
	}
	second := run(tr, x, 500)
	if len(first) != len(second) {
		t.Fatalf("len after Clear = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Clear", i)
		}
	}
}
