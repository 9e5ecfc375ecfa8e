package ring

import "sync/atomic"

// MonoBuffer is a single-producer, best-effort-reader circular buffer of
// float32 samples feeding the spectrum analyzer's output tap. Unlike Buffer,
// it is not a strict SPSC queue: the reader (UI thread, ~60Hz) peeks at the
// most recent N samples without draining them, so a write racing a read near
// the tail is acceptable — the analyzer only needs a recent window, not an
// exact one.
type MonoBuffer struct {
	slots   []float32
	mask    uint32
	written atomic.Uint64
}

// NewMonoBuffer returns a MonoBuffer rounded up to the next power of two
// capacity (minimum 1).
func NewMonoBuffer(capacity int) *MonoBuffer {
	n := nextPow2(capacity)
	return &MonoBuffer{slots: make([]float32, n), mask: uint32(n - 1)}
}

// Push appends one sample. Producer-only; never blocks.
func (b *MonoBuffer) Push(sample float32) {
	idx := b.written.Add(1) - 1
	b.slots[uint32(idx)&b.mask] = sample
}

// PeekLatest returns the most recent n samples in chronological order, or
// nil if fewer than n have ever been written.
func (b *MonoBuffer) PeekLatest(n int) []float32 {
	w := b.written.Load()
	if w < uint64(n) {
		return nil
	}
	out := make([]float32, n)
	start := w - uint64(n)
	for i := 0; i < n; i++ {
		out[i] = b.slots[uint32(start+uint64(i))&b.mask]
	}
	return out
}

// Clear resets the write counter; prior samples remain in slots but are no
// longer reachable by PeekLatest until enough new ones arrive.
func (b *MonoBuffer) Clear() {
	b.written.Store(0)
}
