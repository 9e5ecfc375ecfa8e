package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

func TestNewBuffer_RoundsCapacityToPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 2, 2: 2, 3: 4, 4: 4, 5: 8, 1000: 1024, 4096: 4096}
	for in, want := range cases {
		b := NewBuffer(in)
		assert.Equal(t, want, b.Cap(), "capacity(%d)", in)
	}
}

func TestPushPop_FIFOOrder(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 5; i++ {
		ok := b.Push(dsp.Stereo{L: float32(i), R: -float32(i)})
		require.True(t, ok)
	}
	for i := 0; i < 5; i++ {
		frame, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, float32(i), frame.L)
		assert.Equal(t, -float32(i), frame.R)
	}
	_, ok := b.Pop()
	assert.False(t, ok, "buffer should be empty")
	assert.Equal(t, uint64(1), b.Underruns())
}

func TestPush_OverrunWhenFull(t *testing.T) {
	b := NewBuffer(4) // 3 usable slots, one kept empty
	for i := 0; i < 3; i++ {
		require.True(t, b.Push(dsp.Stereo{L: float32(i)}))
	}
	ok := b.Push(dsp.Stereo{L: 99})
	assert.False(t, ok)
	assert.Equal(t, uint64(1), b.Overruns())

	// The dropped frame must not have overwritten anything: FIFO order of
	// the frames that did fit is preserved.
	for i := 0; i < 3; i++ {
		f, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, float32(i), f.L)
	}
}

func TestClear_ResetsIndicesAndSignalsFade(t *testing.T) {
	b := NewBuffer(8)
	b.Push(dsp.Stereo{L: 1})
	b.Push(dsp.Stereo{L: 2})
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.True(t, b.TestAndClearReset())
	assert.False(t, b.TestAndClearReset(), "flag clears after first observation")
	_, ok := b.Pop()
	assert.False(t, ok)
}

// TestProperty_FIFOUnderAnyInterleaving generates arbitrary sequences of
// pushes and pops (without ever overrunning, by bounding push count to
// capacity) and checks every popped frame equals the corresponding pushed
// frame in order.
func TestProperty_FIFOUnderAnyInterleaving(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.SampledFrom([]int{2, 4, 8, 16}).Draw(rt, "capacity")
		b := NewBuffer(capacity)
		usable := capacity - 1

		var pushed, popped []float32
		ops := rapid.SliceOfN(rapid.Bool(), 1, 200).Draw(rt, "ops")
		for _, pushOp := range ops {
			if pushOp && len(pushed) < usable {
				v := rapid.Float32().Draw(rt, "value")
				if b.Push(dsp.Stereo{L: v}) {
					pushed = append(pushed, v)
				}
			} else {
				if f, ok := b.Pop(); ok {
					popped = append(popped, f.L)
				}
			}
		}
		// Drain remaining frames.
		for {
			f, ok := b.Pop()
			if !ok {
				break
			}
			popped = append(popped, f.L)
		}

		require.LessOrEqual(rt, len(popped), len(pushed))
		for i := range popped {
			assert.Equal(rt, pushed[i], popped[i])
		}
	})
}

func TestFadeState_QuadraticTailThenSilence(t *testing.T) {
	var f FadeState
	f.OnPopped(dsp.Stereo{L: 1, R: -1})

	prevMag := float32(2) // larger than any possible output
	for i := 0; i <= DefaultFadeSamples; i++ {
		out := f.Next()
		mag := abs(out.L)
		assert.LessOrEqual(t, mag, prevMag, "fade tail must be non-increasing at step %d", i)
		prevMag = mag
	}
	out := f.Next()
	assert.Equal(t, dsp.Stereo{}, out, "beyond the tail, output must be exact silence")
}

func TestFadeState_CustomLength_ShortensTail(t *testing.T) {
	f := NewFadeState(4)
	f.OnPopped(dsp.Stereo{L: 1, R: -1})

	for i := 0; i < 5; i++ {
		f.Next()
	}
	out := f.Next()
	assert.Equal(t, dsp.Stereo{}, out, "a 4-sample fade must reach silence well before the default 64-sample tail would")
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
