package buffer

import (
	"errors"
	"fmt"
)

// ErrInvalidChannels indicates a channel count below one.
var ErrInvalidChannels = errors.New("buffer: channel count must be >= 1")

const minFIFOCapacity = 256

// FIFO is a queue of interleaved sample frames.
//
// A frame holds one value per channel. Head and tail are tracked in frames;
// the readable region is data[head*channels : tail*channels].
//
// FIFO is not safe for concurrent use.
type FIFO struct {
	channels int
	data     []float64
	head     int
	tail     int
}

// NewFIFO returns an empty FIFO for the given channel count.
// Channel counts below one are clamped to one.
func NewFIFO(channels int) *FIFO {
	if channels < 1 {
		channels = 1
	}
	return &FIFO{channels: channels}
}

// Channels returns the number of values per frame.
func (f *FIFO) Channels() int { return f.channels }

// SetChannels changes the frame width. Buffered content is discarded when
// the width changes.
func (f *FIFO) SetChannels(channels int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if channels == f.channels {
		return nil
	}
	f.channels = channels
	f.Clear()
	return nil
}

// Len returns the number of frames available for reading.
func (f *FIFO) Len() int { return f.tail - f.head }

// Capacity returns the number of frames the backing storage holds.
func (f *FIFO) Capacity() int { return len(f.data) / f.channels }

// Frames returns the readable region as interleaved values.
//
// The slice aliases internal storage and is valid only until the next call
// that appends, reserves or clears.
func (f *FIFO) Frames() []float64 {
	return f.data[f.head*f.channels : f.tail*f.channels]
}

// Append copies whole frames from samples to the tail. A trailing partial
// frame is ignored. It returns the number of frames appended.
func (f *FIFO) Append(samples []float64) int {
	n := len(samples) / f.channels
	if n == 0 {
		return 0
	}
	dst := f.Reserve(n)
	copy(dst, samples[:n*f.channels])
	f.tail += n
	return n
}

// AppendSilence appends frames of zeros.
func (f *FIFO) AppendSilence(frames int) {
	if frames <= 0 {
		return
	}
	dst := f.Reserve(frames)
	for i := range dst {
		dst[i] = 0
	}
	f.tail += frames
}

// Reserve makes room for frames more frames and returns the writable region
// past the tail. The caller writes into it and then calls [FIFO.Commit] with
// the number of frames actually produced. Content of the returned slice is
// unspecified.
func (f *FIFO) Reserve(frames int) []float64 {
	if frames <= 0 {
		return nil
	}
	f.ensureSpace(frames)
	start := f.tail * f.channels
	return f.data[start : start+frames*f.channels]
}

// Commit advances the tail by frames after a [FIFO.Reserve]. Commit never
// advances past reserved storage.
func (f *FIFO) Commit(frames int) {
	if frames <= 0 {
		return
	}
	limit := len(f.data)/f.channels - f.tail
	if frames > limit {
		frames = limit
	}
	f.tail += frames
}

// Consume discards up to count frames from the head and returns the number
// of frames discarded.
func (f *FIFO) Consume(count int) int {
	if count <= 0 {
		return 0
	}
	if avail := f.Len(); count > avail {
		count = avail
	}
	f.head += count
	if f.head == f.tail {
		f.head = 0
		f.tail = 0
	}
	return count
}

// Read copies up to maxFrames frames from the head into dst and consumes
// them. The count is further limited by len(dst). A nil dst discards frames
// like [FIFO.Consume].
func (f *FIFO) Read(dst []float64, maxFrames int) int {
	if dst == nil {
		return f.Consume(maxFrames)
	}
	if n := len(dst) / f.channels; maxFrames > n {
		maxFrames = n
	}
	if avail := f.Len(); maxFrames > avail {
		maxFrames = avail
	}
	if maxFrames <= 0 {
		return 0
	}
	start := f.head * f.channels
	copy(dst, f.data[start:start+maxFrames*f.channels])
	return f.Consume(maxFrames)
}

// MoveFrom appends every frame of src to f and empties src. Both FIFOs must
// have the same channel count; otherwise nothing is moved.
func (f *FIFO) MoveFrom(src *FIFO) int {
	if src == nil || src == f || src.channels != f.channels {
		return 0
	}
	n := f.Append(src.Frames())
	src.Clear()
	return n
}

// Truncate keeps at most frames frames, dropping the newest excess.
func (f *FIFO) Truncate(frames int) {
	if frames < 0 {
		frames = 0
	}
	if frames < f.Len() {
		f.tail = f.head + frames
	}
}

// Clear empties the FIFO without changing its channel count. Backing storage
// is retained for reuse.
func (f *FIFO) Clear() {
	f.head = 0
	f.tail = 0
}

// Release empties the FIFO and drops its backing storage.
func (f *FIFO) Release() {
	f.Clear()
	f.data = nil
}

// ensureSpace guarantees room for frames frames past the tail. Consumed head
// storage is reclaimed only when it makes up at least half the capacity;
// otherwise the storage doubles. Either way each live frame is copied an
// amortized constant number of times.
func (f *FIFO) ensureSpace(frames int) {
	capFrames := len(f.data) / f.channels
	if f.tail+frames <= capFrames {
		return
	}

	live := f.Len()
	need := live + frames
	if need <= capFrames && f.head >= capFrames/2 {
		copy(f.data, f.data[f.head*f.channels:f.tail*f.channels])
		f.head = 0
		f.tail = live
		return
	}

	newCap := 2 * capFrames
	if newCap < minFIFOCapacity {
		newCap = minFIFOCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	grown := make([]float64, newCap*f.channels)
	copy(grown, f.data[f.head*f.channels:f.tail*f.channels])
	f.data = grown
	f.head = 0
	f.tail = live
}
