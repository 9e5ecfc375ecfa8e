// Package spatial implements the stereo widener: a mid/side scale that
// narrows or widens the stereo image without altering the mono sum.
package spatial

import (
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// WidenerConfig is the published parameter bundle for Widener.
type WidenerConfig struct {
	Width float64 // 0 = mono, 1 = unchanged (involution), 2 = maximally wide
}

// DefaultWidenerConfig leaves the stereo image unchanged.
func DefaultWidenerConfig() WidenerConfig {
	return WidenerConfig{Width: 1.0}
}

// Widener decomposes the input into mid/side, scales side by width, and
// recombines. At width=1 this is the identity (an involution); at width=0
// the output collapses to mono (mid only); width>1 exaggerates the side
// signal beyond the original image.
type Widener struct {
	cfg *param.Snapshot[WidenerConfig]

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// NewWidener returns a Widener with a unity-width default.
func NewWidener() *Widener {
	return &Widener{cfg: param.NewSnapshot(DefaultWidenerConfig()), wetDry: dsp.NewWetDryMix(1.0)}
}

func (w *Widener) Name() string  { return "Stereo Widener" }
func (w *Widener) Kind() dsp.Kind { return dsp.KindWidener }

func (w *Widener) SetConfig(cfg WidenerConfig) {
	if cfg.Width < 0 {
		cfg.Width = 0
	}
	if cfg.Width > 2 {
		cfg.Width = 2
	}
	w.cfg.Store(cfg)
}

func (w *Widener) Config() WidenerConfig { return w.cfg.Load() }

func (w *Widener) Process(in dsp.Stereo) dsp.Stereo {
	cfg := w.cfg.Load()
	mid := (in.L + in.R) * 0.5
	side := (in.L - in.R) * 0.5 * float32(cfg.Width)
	return dsp.Stereo{L: mid + side, R: mid - side}
}

func (w *Widener) Reset() {}

var _ dsp.Effect = (*Widener)(nil)

func (w *Widener) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "width", Unit: "", Min: 0, Max: 2, Default: 1.0},
	}
}

func (w *Widener) SetParam(index int, value float64) {
	if index != 0 {
		return
	}
	cfg := w.cfg.Load()
	cfg.Width = w.Params()[0].Clamp(value)
	w.SetConfig(cfg)
}

func (w *Widener) Param(index int) float64 {
	if index != 0 {
		return 0
	}
	return w.cfg.Load().Width
}

func (w *Widener) Bypass() bool          { return w.bypass.Get() }
func (w *Widener) SetBypass(bypass bool) { w.bypass.Set(bypass) }
func (w *Widener) WetDry() float64       { return w.wetDry.Get() }
func (w *Widener) SetWetDry(mix float64) { w.wetDry.Set(mix) }
