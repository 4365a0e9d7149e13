// Package buffer provides FIFO, a growable first-in first-out queue of
// interleaved multi-channel float64 frames.
//
// FIFO is the substrate the stretch, transpose and processor packages read
// from and write into. Producers append at the tail (either by copying with
// [FIFO.Append] or in place via [FIFO.Reserve] and [FIFO.Commit]); consumers
// inspect the head with [FIFO.Frames] and discard with [FIFO.Consume] or
// copy out with [FIFO.Read].
//
// Storage holding already-consumed frames is reclaimed lazily: live frames
// are shifted to the front of the backing slice when the tail needs room, so
// memory stays bounded by the peak number of live frames for unbounded
// streams.
package buffer
