package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/loopback-audio/fxcore/internal/dsp"
)

func TestWidener_UnityWidth_IsIdentity(t *testing.T) {
	w := NewWidener()
	in := dsp.Stereo{L: 0.3, R: -0.7}
	out := w.Process(in)
	assert.InDelta(t, float64(in.L), float64(out.L), 1e-6)
	assert.InDelta(t, float64(in.R), float64(out.R), 1e-6)
}

func TestWidener_ZeroWidth_CollapsesToMono(t *testing.T) {
	w := NewWidener()
	w.SetConfig(WidenerConfig{Width: 0})
	out := w.Process(dsp.Stereo{L: 0.3, R: -0.7})
	assert.InDelta(t, float64(out.L), float64(out.R), 1e-6)
}

func TestWidener_ClampsOutOfRangeWidth(t *testing.T) {
	w := NewWidener()
	w.SetConfig(WidenerConfig{Width: 10})
	assert.Equal(t, 2.0, w.Config().Width)
	w.SetConfig(WidenerConfig{Width: -5})
	assert.Equal(t, 0.0, w.Config().Width)
}

func TestProperty_WidthOneIsAlwaysInvolution(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := NewWidener()
		w.SetConfig(WidenerConfig{Width: 1})
		l := rapid.Float32Range(-1, 1).Draw(rt, "l")
		r := rapid.Float32Range(-1, 1).Draw(rt, "r")
		out := w.Process(dsp.Stereo{L: l, R: r})
		assert.InDelta(rt, float64(l), float64(out.L), 1e-4)
		assert.InDelta(rt, float64(r), float64(out.R), 1e-4)
	})
}
