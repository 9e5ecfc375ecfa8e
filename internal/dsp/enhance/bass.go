// Package enhance implements the psychoacoustic bass/vocal enhancers and
// the final-stage output gain.
package enhance

import (
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// BassConfig is the published parameter bundle for BassEnhancer.
type BassConfig struct {
	Amount     float64 // 0..100, mix of generated harmonic content
	LowFreqHz  float64 // 40..250, split cutoff
	Harmonics  float64 // 0..100, drive into the waveshaper
}

func DefaultBassConfig() BassConfig {
	return BassConfig{Amount: 50, LowFreqHz: 100, Harmonics: 30}
}

// BassEnhancer isolates the low band with a biquad lowpass, drives it
// through a low-order waveshaper to generate harmonics that remain audible
// on small speakers, and remixes additively with the dry signal.
type BassEnhancer struct {
	cfg        *param.Snapshot[BassConfig]
	sampleRate float64
	lpCoefs    dsp.BiquadCoefficients
	lpStateL   dsp.BiquadState
	lpStateR   dsp.BiquadState

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

func NewBassEnhancer(sampleRate float64) *BassEnhancer {
	b := &BassEnhancer{cfg: param.NewSnapshot(DefaultBassConfig()), sampleRate: sampleRate, wetDry: dsp.NewWetDryMix(1.0)}
	return b
}

func (b *BassEnhancer) Name() string  { return "Bass Enhancer" }
func (b *BassEnhancer) Kind() dsp.Kind { return dsp.KindBass }

func (b *BassEnhancer) SetConfig(cfg BassConfig) {
	cfg.Amount = clampRange(cfg.Amount, 0, 100)
	cfg.LowFreqHz = clampRange(cfg.LowFreqHz, 40, 250)
	cfg.Harmonics = clampRange(cfg.Harmonics, 0, 100)
	b.cfg.Store(cfg)
}

func (b *BassEnhancer) Config() BassConfig { return b.cfg.Load() }

// harmonicShape is a low-order waveshaping polynomial biased to generate
// predominantly second/third-harmonic content, with denormals flushed.
func harmonicShape(x float32, drive float64) float32 {
	d := float32(drive)
	y := x + d*x*x*sign(x)*0.5 - d*x*x*x*0.15
	return dsp.FlushDenormal(y)
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

func (b *BassEnhancer) Process(in dsp.Stereo) dsp.Stereo {
	cfg := b.cfg.Load()
	b.lpCoefs.Update(dsp.BiquadLowPass, b.sampleRate, cfg.LowFreqHz, 0.707, 0)

	lowL := float32(b.lpStateL.Process(&b.lpCoefs, float64(in.L)))
	lowR := float32(b.lpStateR.Process(&b.lpCoefs, float64(in.R)))

	drive := cfg.Harmonics / 100 * 4
	harmL := harmonicShape(lowL, drive)
	harmR := harmonicShape(lowR, drive)

	mix := float32(cfg.Amount / 100)
	return dsp.Stereo{
		L: in.L + harmL*mix,
		R: in.R + harmR*mix,
	}
}

func (b *BassEnhancer) Reset() {
	b.lpStateL.Reset()
	b.lpStateR.Reset()
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var _ dsp.Effect = (*BassEnhancer)(nil)

func (b *BassEnhancer) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "amount", Unit: "%", Min: 0, Max: 100, Default: 50},
		{Index: 1, Name: "low_freq", Unit: "Hz", Min: 40, Max: 250, Default: 100},
		{Index: 2, Name: "harmonics", Unit: "%", Min: 0, Max: 100, Default: 30},
	}
}

func (b *BassEnhancer) SetParam(index int, value float64) {
	specs := b.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := b.cfg.Load()
	switch index {
	case 0:
		cfg.Amount = value
	case 1:
		cfg.LowFreqHz = value
	case 2:
		cfg.Harmonics = value
	}
	b.SetConfig(cfg)
}

func (b *BassEnhancer) Param(index int) float64 {
	cfg := b.cfg.Load()
	switch index {
	case 0:
		return cfg.Amount
	case 1:
		return cfg.LowFreqHz
	case 2:
		return cfg.Harmonics
	}
	return 0
}

func (b *BassEnhancer) Bypass() bool          { return b.bypass.Get() }
func (b *BassEnhancer) SetBypass(bypass bool) { b.bypass.Set(bypass) }
func (b *BassEnhancer) WetDry() float64       { return b.wetDry.Get() }
func (b *BassEnhancer) SetWetDry(mix float64) { b.wetDry.Set(mix) }
