package processor

import (
	"fmt"

	"github.com/go-audio/audio"
)

// PutBuffer feeds a go-audio buffer into the pipeline.
//
// Integer buffers are normalised to [-1, 1) by their SourceBitDepth
// (16 bits if unset); float buffers are taken as is. A buffer whose format
// names a different channel count is rejected with ErrChannelMismatch.
func (p *Processor) PutBuffer(buf audio.Buffer) error {
	if p.closed {
		return ErrClosed
	}
	if err := p.requireConfigured("PutBuffer"); err != nil {
		return err
	}
	if buf == nil {
		return nil
	}
	if f := buf.PCMFormat(); f != nil && f.NumChannels != 0 && f.NumChannels != p.channels {
		return fmt.Errorf("%w: buffer has %d channels, processor %d",
			ErrChannelMismatch, f.NumChannels, p.channels)
	}

	var data []float32
	switch b := buf.(type) {
	case *audio.Float32Buffer:
		data = b.Data
	case *audio.IntBuffer:
		data = p.scaleInts(b)
	default:
		data = buf.AsFloat32Buffer().Data
	}
	return p.PutSamples(data, len(data)/p.channels)
}

func (p *Processor) scaleInts(b *audio.IntBuffer) []float32 {
	var full float32
	switch b.SourceBitDepth {
	case 8:
		full = 128.0
	case 24:
		full = 8388608.0
	case 32:
		full = 2147483648.0
	default:
		full = 32768.0
	}
	out := make([]float32, len(b.Data))
	for i, v := range b.Data {
		out[i] = float32(v) / full
	}
	return out
}

// ReceiveBuffer fills buf.Data with finished frames and shrinks it to the
// frames written, which are returned. A nil buf.Format is set to the
// processor's format; a format with a different channel count receives
// nothing.
func (p *Processor) ReceiveBuffer(buf *audio.Float32Buffer) int {
	if buf == nil || p.closed || p.channels == 0 {
		return 0
	}
	if buf.Format == nil {
		buf.Format = &audio.Format{NumChannels: p.channels, SampleRate: p.sampleRate}
	}
	if buf.Format.NumChannels != p.channels {
		return 0
	}
	n := p.ReceiveSamples(buf.Data, len(buf.Data)/p.channels)
	buf.Data = buf.Data[:n*p.channels]
	return n
}
