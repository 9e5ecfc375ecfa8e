package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

func fillWithTone(a *Analyzer, freq, sampleRate float64, n int) {
	for i := 0; i < n; i++ {
		x := float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
		a.Push(dsp.Stereo{L: x, R: x})
	}
}

func TestAnalyzer_ReturnsNilBeforeWarmup(t *testing.T) {
	a := NewAnalyzer()
	fillWithTone(a, 1000, 48000, WindowSize-1)
	assert.Nil(t, a.Snapshot())
}

func TestAnalyzer_ReturnsBinCountBins(t *testing.T) {
	a := NewAnalyzer()
	fillWithTone(a, 1000, 48000, WindowSize)
	snap := a.Snapshot()
	require.Len(t, snap, BinCount)
}

func TestAnalyzer_PureToneProducesPeakNearExpectedBin(t *testing.T) {
	a := NewAnalyzer()
	sampleRate := 48000.0
	freq := 1000.0
	fillWithTone(a, freq, sampleRate, WindowSize)
	snap := a.Snapshot()

	expectedBin := int(freq * WindowSize / sampleRate)
	peakBin := 0
	for i, v := range snap {
		if v > snap[peakBin] {
			peakBin = i
		}
		_ = i
	}
	assert.InDelta(t, expectedBin, peakBin, 2)
}

func TestAnalyzer_MagnitudesRespectFloor(t *testing.T) {
	a := NewAnalyzer()
	fillWithTone(a, 0, 48000, WindowSize) // silence
	snap := a.Snapshot()
	for _, v := range snap {
		assert.GreaterOrEqual(t, v, dBFloor)
		assert.LessOrEqual(t, v, 0.0001)
	}
}

func TestAnalyzer_Reset_ClearsSmoothingState(t *testing.T) {
	a := NewAnalyzer()
	fillWithTone(a, 1000, 48000, WindowSize*2)
	a.Snapshot()
	a.Reset()
	assert.Nil(t, a.Snapshot(), "after reset the buffer no longer has a full window reachable")
}
