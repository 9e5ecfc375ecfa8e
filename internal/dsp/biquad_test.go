package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestBiquad_Update_ReturnsFalseWhenUnchanged(t *testing.T) {
	var c BiquadCoefficients
	changed := c.Update(BiquadPeaking, 48000, 1000, 1, 6)
	assert.True(t, changed)
	changed = c.Update(BiquadPeaking, 48000, 1000, 1, 6)
	assert.False(t, changed, "identical parameters must not trigger recomputation")
}

func TestBiquad_PeakingAtUnityGain_IsTransparent(t *testing.T) {
	var c BiquadCoefficients
	var s BiquadState
	c.Update(BiquadPeaking, 48000, 1000, 1, 0)

	for i := 0; i < 100; i++ {
		x := math.Sin(2 * math.Pi * 1000 * float64(i) / 48000)
		y := s.Process(&c, x)
		assert.InDelta(t, x, y, 0.05)
	}
}

func TestProperty_BiquadStaysBoundedForQuietTone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		kinds := []BiquadType{BiquadLowShelf, BiquadHighShelf, BiquadPeaking, BiquadLowPass, BiquadHighPass, BiquadAllPass}
		kind := kinds[rapid.IntRange(0, len(kinds)-1).Draw(rt, "kind")]
		sampleRate := rapid.SampledFrom([]float64{44100, 48000, 96000, 192000}).Draw(rt, "sr")
		freq := rapid.Float64Range(20, sampleRate/2-100).Draw(rt, "freq")
		q := rapid.Float64Range(0.1, 10).Draw(rt, "q")
		gain := rapid.Float64Range(-24, 24).Draw(rt, "gain")

		var c BiquadCoefficients
		var s BiquadState
		c.Update(kind, sampleRate, freq, q, gain)

		amp := math.Pow(10, -60.0/20) // -60dB tone
		n := int(sampleRate) / 10     // ~0.1s, enough to reveal instability
		for i := 0; i < n; i++ {
			x := amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
			y := s.Process(&c, x)
			assert.False(rt, math.IsNaN(y))
			assert.Less(rt, math.Abs(y), 100.0, "biquad output must stay bounded for a quiet in-range tone")
		}
	})
}

func TestBiquad_DegenerateFrequency_DoesNotProduceNaN(t *testing.T) {
	var c BiquadCoefficients
	var s BiquadState
	c.Update(BiquadPeaking, 48000, 0, 1, 6) // degenerate: freq below Nyquist floor
	y := s.Process(&c, 1.0)
	assert.False(t, math.IsNaN(y))
}
