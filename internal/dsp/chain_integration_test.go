package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/dsp/dynamics"
	"github.com/loopback-audio/fxcore/internal/dsp/enhance"
	"github.com/loopback-audio/fxcore/internal/dsp/eq"
	"github.com/loopback-audio/fxcore/internal/dsp/spatial"
	"github.com/loopback-audio/fxcore/internal/dsp/timebased"
)

// TestChain_AllBypassed_IsIdentity exercises the spec's universal
// invariant across the whole default effect chain, not just per-effect:
// with every member bypassed, process(l, r) == (l, r) for any input.
func TestChain_AllBypassed_IsIdentity(t *testing.T) {
	const sampleRate = 48000.0
	chain := dsp.NewChain()

	members := []dsp.Effect{
		eq.New(sampleRate),
		enhance.NewBassEnhancer(sampleRate),
		enhance.NewVocalClarity(sampleRate),
		dynamics.NewCompressor(sampleRate),
		dynamics.NewLimiter(sampleRate),
		timebased.NewReverb(sampleRate),
		timebased.NewDelay(sampleRate),
		spatial.NewWidener(),
		enhance.NewOutputGain(sampleRate),
	}
	for _, m := range members {
		m.SetBypass(true)
		chain.Add(m)
	}

	inputs := []dsp.Stereo{
		{L: 0, R: 0},
		{L: 0.5, R: -0.5},
		{L: 1.0, R: 1.0},
		{L: -0.3, R: 0.2},
	}
	for _, in := range inputs {
		out := chain.Process(in)
		assert.Equal(t, in, out, "a fully bypassed chain must be transparent")
	}
}

// TestChain_ProcessRoutesThroughLiveMember checks that a single live
// (non-bypassed) +12dB gain member raises the chain's output above its
// input, confirming the chain actually routes samples through live members.
func TestChain_ProcessRoutesThroughLiveMember(t *testing.T) {
	const sampleRate = 48000.0
	chain := dsp.NewChain()

	gain := enhance.NewOutputGain(sampleRate)
	gain.SetParam(0, 12) // +12dB, clearly audible
	chain.Add(gain)

	in := dsp.Stereo{L: 0.1, R: 0.1}
	var out dsp.Stereo
	for i := 0; i < 100; i++ {
		out = chain.Process(in)
	}
	assert.Greater(t, out.L, in.L, "a live +12dB gain stage must raise the output above the input")
}
