package dynamics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

func TestCompressor_BelowThreshold_NoGainReduction(t *testing.T) {
	c := NewCompressor(48000)
	cfg := DefaultCompressorConfig()
	c.SetConfig(cfg)

	quiet := float32(0.01) // well below -12dB threshold
	var out dsp.Stereo
	for i := 0; i < 1000; i++ {
		out = c.Process(dsp.Stereo{L: quiet, R: quiet})
	}
	assert.InDelta(t, 0.0, c.GainReductionDB(), 0.5)
	assert.InDelta(t, float64(quiet), float64(out.L), 0.01)
}

func TestCompressor_AboveThreshold_Reduces2to1(t *testing.T) {
	c := NewCompressor(48000)
	cfg := DefaultCompressorConfig()
	cfg.Ratio = 2
	cfg.ThresholdDB = -18
	cfg.AttackMs = 0.1
	cfg.ReleaseMs = 50
	c.SetConfig(cfg)

	loud := float32(dbToLin(-6)) // 12dB over threshold
	for i := 0; i < 20000; i++ {
		c.Process(dsp.Stereo{L: loud, R: loud})
	}
	// 12dB over threshold at 2:1 => 6dB gain reduction.
	assert.InDelta(t, -6.0, c.GainReductionDB(), 1.0)
}

func TestCompressor_RatioClampedToAtLeastOne(t *testing.T) {
	c := NewCompressor(48000)
	cfg := DefaultCompressorConfig()
	cfg.Ratio = 0.2
	c.SetConfig(cfg)
	assert.GreaterOrEqual(t, c.Config().Ratio, 1.0)
}

func TestCompressor_ThresholdFloor(t *testing.T) {
	c := NewCompressor(48000)
	cfg := DefaultCompressorConfig()
	cfg.ThresholdDB = -1000
	c.SetConfig(cfg)
	assert.GreaterOrEqual(t, c.Config().ThresholdDB, float64(thresholdFloorDB))
}

func TestLimiter_NeverExceedsCeiling(t *testing.T) {
	l := NewLimiter(48000)
	cfg := DefaultLimiterConfig()
	cfg.CeilingDB = -1.0
	l.SetConfig(cfg)

	ceilingLin := float32(dbToLin(cfg.CeilingDB))
	for i := 0; i < 5000; i++ {
		x := float32(2.0 * math.Sin(2*math.Pi*1000*float64(i)/48000))
		out := l.Process(dsp.Stereo{L: x, R: x})
		assert.LessOrEqual(t, out.L, ceilingLin+1e-4)
		assert.GreaterOrEqual(t, out.L, -ceilingLin-1e-4)
	}
}

func TestProperty_LimiterOutputBoundedForAnyInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := NewLimiter(48000)
		cfg := DefaultLimiterConfig()
		cfg.CeilingDB = rapid.Float64Range(-12, 0).Draw(rt, "ceiling")
		l.SetConfig(cfg)
		ceilingLin := float32(dbToLin(cfg.CeilingDB))

		for i := 0; i < 100; i++ {
			x := rapid.Float32Range(-10, 10).Draw(rt, "sample")
			out := l.Process(dsp.Stereo{L: x, R: x})
			assert.LessOrEqual(rt, out.L, ceilingLin+1e-3)
			assert.GreaterOrEqual(rt, out.L, -ceilingLin-1e-3)
			assert.False(rt, math.IsNaN(float64(out.L)))
		}
	})
}

func TestCompressor_Reset_ClearsEnvelope(t *testing.T) {
	c := NewCompressor(48000)
	for i := 0; i < 1000; i++ {
		c.Process(dsp.Stereo{L: 1, R: 1})
	}
	c.Reset()
	assert.Equal(t, 0.0, c.GainReductionDB())
}
