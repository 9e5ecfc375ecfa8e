package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelayLine_ReadsBackAfterOffset(t *testing.T) {
	d := NewDelayLine(8)
	for i := 0; i < 4; i++ {
		d.Write(float32(i + 1))
	}
	// Read(offset) returns the sample written `offset` writes before the
	// next write position, per spec's (write + maxSamples - offset) mod n.
	assert.Equal(t, float32(4), d.Read(1), "offset 1 is the most recently written sample")
	assert.Equal(t, float32(1), d.Read(4), "offset 4 is the oldest of the four written samples")
}

func TestDelayLine_OffsetClampedToCapacity(t *testing.T) {
	d := NewDelayLine(4)
	for i := 0; i < 4; i++ {
		d.Write(float32(i + 1))
	}
	assert.Equal(t, d.Read(3), d.Read(100), "over-range offsets clamp to maxSamples-1")
	assert.Equal(t, d.Read(0), d.Read(-5), "negative offsets clamp to 0")
}

func TestDelayLine_ReadWrite_CombFeedback(t *testing.T) {
	d := NewDelayLine(4)
	out1 := d.ReadWrite(1, 3, 0.5)
	assert.Equal(t, float32(0), out1, "an empty buffer has nothing to read back yet")

	var last float32
	for i := 0; i < 3; i++ {
		last = d.ReadWrite(0, 3, 0.5)
	}
	assert.Equal(t, float32(1), last, "the original impulse resurfaces once the buffer has cycled fully")
}

func TestDelayLine_Reset_ClearsBuffer(t *testing.T) {
	d := NewDelayLine(4)
	d.Write(1)
	d.Write(2)
	d.Reset()
	for i := 0; i < 4; i++ {
		assert.Equal(t, float32(0), d.Read(i))
	}
}
