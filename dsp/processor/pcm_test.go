package processor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"
)

func TestPutBufferFloat32(t *testing.T) {
	p := newProcessor(t, 2, 44100)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:   []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3},
	}
	if err := p.PutBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if p.NumSamples() != 3 {
		t.Fatalf("NumSamples = %d, want 3", p.NumSamples())
	}

	out := &audio.Float32Buffer{Data: make([]float32, 8)}
	if n := p.ReceiveBuffer(out); n != 3 {
		t.Fatalf("ReceiveBuffer = %d, want 3", n)
	}
	if out.Format == nil || out.Format.NumChannels != 2 || out.Format.SampleRate != 44100 {
		t.Fatalf("Format = %+v", out.Format)
	}
	if out.NumFrames() != 3 {
		t.Fatalf("NumFrames = %d, want 3", out.NumFrames())
	}
	for i, v := range buf.Data {
		if out.Data[i] != v {
			t.Fatalf("Data[%d] = %v, want %v", i, out.Data[i], v)
		}
	}
}

func TestPutBufferIntScaling(t *testing.T) {
	p := newProcessor(t, 1, 8000)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           []int{16384, -32768, 0},
		SourceBitDepth: 16,
	}
	if err := p.PutBuffer(buf); err != nil {
		t.Fatal(err)
	}
	got := make([]float32, 3)
	if n := p.ReceiveSamples(got, 3); n != 3 {
		t.Fatalf("received %d", n)
	}
	want := []float32{0.5, -1, 0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-7 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPutBufferErrors(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatal(err)
	}
	buf := &audio.Float32Buffer{Format: &audio.Format{NumChannels: 2}, Data: make([]float32, 4)}
	if err := p.PutBuffer(buf); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("unconfigured PutBuffer = %v", err)
	}

	p = newProcessor(t, 1, 44100)
	if err := p.PutBuffer(buf); !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("mismatched PutBuffer = %v", err)
	}
	if err := p.PutBuffer(nil); err != nil {
		t.Fatalf("nil PutBuffer = %v", err)
	}

	if err := p.PutSamples([]float32{1, 2}, 2); err != nil {
		t.Fatal(err)
	}
	stereo := &audio.Float32Buffer{Format: &audio.Format{NumChannels: 2}, Data: make([]float32, 4)}
	if n := p.ReceiveBuffer(stereo); n != 0 {
		t.Fatalf("ReceiveBuffer with mismatched format = %d", n)
	}
	if n := p.ReceiveBuffer(nil); n != 0 {
		t.Fatalf("ReceiveBuffer(nil) = %d", n)
	}
}
