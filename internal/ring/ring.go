// Package ring implements the single-producer/single-consumer stereo frame
// transport that bridges the capture and render audio callbacks.
package ring

import (
	"sync/atomic"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

// Buffer is a fixed-capacity FIFO of stereo frames, capacity rounded up to
// a power of two. Exactly one producer goroutine calls Push and exactly one
// consumer goroutine calls Pop; neither resizes the underlying slots after
// construction. One slot is always kept empty to disambiguate full from
// empty without a separate counter.
type Buffer struct {
	slots []dsp.Stereo
	mask  uint32

	writeIdx atomic.Uint32 // producer-owned, published with Release ordering
	readIdx  atomic.Uint32 // consumer-owned, published with Release ordering

	underruns atomic.Uint64
	overruns  atomic.Uint64

	resetSignal atomic.Bool // controller→consumer test-and-clear flag
}

// DefaultCapacity is the frame capacity used when the caller doesn't
// override it; at 48kHz this is roughly 85ms of headroom.
const DefaultCapacity = 4096

// NewBuffer returns a ring buffer whose capacity is capacity rounded up to
// the next power of two (minimum 2, since one slot is always kept empty).
func NewBuffer(capacity int) *Buffer {
	capacity = nextPow2(capacity)
	if capacity < 2 {
		capacity = 2
	}
	return &Buffer{
		slots: make([]dsp.Stereo, capacity),
		mask:  uint32(capacity - 1),
	}
}

func nextPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Push writes frame into the buffer. Producer-only: reads its own write
// index without ordering, loads the consumer's read index with Acquire
// ordering, writes the slot, then publishes the advanced write index with
// Release ordering so the consumer's next Acquire load observes the write.
// Returns false (and increments the overrun counter) if the buffer is full;
// the caller drops the frame.
func (b *Buffer) Push(frame dsp.Stereo) bool {
	w := b.writeIdx.Load()
	r := b.readIdx.Load() // acquire: synchronizes with consumer's release on Pop
	next := (w + 1) & b.mask
	if next == r&b.mask {
		b.overruns.Add(1)
		return false
	}
	b.slots[w&b.mask] = frame
	b.writeIdx.Store(next) // release: publishes the slot write
	return true
}

// Pop reads the next frame. Consumer-only: reads its own read index without
// ordering, loads the write index with Acquire ordering; if the two are
// equal the buffer is empty and Pop reports underrun (incrementing the
// best-effort counter) rather than blocking. Otherwise it reads the slot and
// releases the advanced read index.
func (b *Buffer) Pop() (frame dsp.Stereo, ok bool) {
	r := b.readIdx.Load()
	w := b.writeIdx.Load() // acquire: synchronizes with producer's release on Push
	if r == w {
		b.underruns.Add(1)
		return dsp.Stereo{}, false
	}
	frame = b.slots[r&b.mask]
	b.readIdx.Store((r + 1) & b.mask) // release
	return frame, true
}

// Clear resets both indices and signals the consumer to clear its private
// fade state. Called only when the audio stream is stopped — never while
// streaming.
func (b *Buffer) Clear() {
	b.writeIdx.Store(0)
	b.readIdx.Store(0)
	b.resetSignal.Store(true)
}

// TestAndClearReset reports whether a Clear happened since the last call,
// clearing the flag as it reports it. Called by the consumer (the engine's
// render loop, once per cycle before popping) so it can reset its private UnderrunFadeState without the controller
// touching that state directly.
func (b *Buffer) TestAndClearReset() bool {
	return b.resetSignal.CompareAndSwap(true, false)
}

// Len is a monotone approximation of the number of frames currently
// buffered. Safe to read from either side; may be stale by the time the
// caller acts on it.
func (b *Buffer) Len() int {
	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	return int((w - r) & b.mask)
}

// Cap returns the buffer's slot capacity (including the always-empty
// slot).
func (b *Buffer) Cap() int { return len(b.slots) }

// AvailableSpace is a monotone approximation of free slots for the
// producer.
func (b *Buffer) AvailableSpace() int {
	return b.Cap() - 1 - b.Len()
}

// Underruns returns the cumulative underrun count for observability. Not
// an error: underruns are expected during stream startup/stop transients
// and are handled by the fade-out policy in FadeState.
func (b *Buffer) Underruns() uint64 { return b.underruns.Load() }

// Overruns returns the cumulative overrun (producer-saw-full) count.
func (b *Buffer) Overruns() uint64 { return b.overruns.Load() }
