package enhance

import (
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// VocalConfig is the published parameter bundle for VocalClarity.
type VocalConfig struct {
	Clarity float64 // 0..100, mix of the mid-band harmonic generator
	Air     float64 // 0..100, mix of the high-shelf "air" boost
}

func DefaultVocalConfig() VocalConfig {
	return VocalConfig{Clarity: 50, Air: 25}
}

const (
	vocalBandLowHz  = 800
	vocalBandHighHz = 4000
	vocalAirHz      = 10000
)

// VocalClarity splits out the presence band (800Hz-4kHz) with a cascaded
// highpass/lowpass pair, drives it through the same low-order harmonic
// generator as BassEnhancer, remixes with the dry signal, and adds a
// high-shelf "air" boost above 10kHz.
type VocalClarity struct {
	cfg        *param.Snapshot[VocalConfig]
	sampleRate float64

	hpCoefs  dsp.BiquadCoefficients
	hpStateL dsp.BiquadState
	hpStateR dsp.BiquadState
	lpCoefs  dsp.BiquadCoefficients
	lpStateL dsp.BiquadState
	lpStateR dsp.BiquadState

	airCoefs  dsp.BiquadCoefficients
	airStateL dsp.BiquadState
	airStateR dsp.BiquadState

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

func NewVocalClarity(sampleRate float64) *VocalClarity {
	return &VocalClarity{cfg: param.NewSnapshot(DefaultVocalConfig()), sampleRate: sampleRate, wetDry: dsp.NewWetDryMix(1.0)}
}

func (v *VocalClarity) Name() string  { return "Vocal Clarity" }
func (v *VocalClarity) Kind() dsp.Kind { return dsp.KindVocal }

func (v *VocalClarity) SetConfig(cfg VocalConfig) {
	cfg.Clarity = clampRange(cfg.Clarity, 0, 100)
	cfg.Air = clampRange(cfg.Air, 0, 100)
	v.cfg.Store(cfg)
}

func (v *VocalClarity) Config() VocalConfig { return v.cfg.Load() }

func (v *VocalClarity) Process(in dsp.Stereo) dsp.Stereo {
	cfg := v.cfg.Load()
	v.hpCoefs.Update(dsp.BiquadHighPass, v.sampleRate, vocalBandLowHz, 0.707, 0)
	v.lpCoefs.Update(dsp.BiquadLowPass, v.sampleRate, vocalBandHighHz, 0.707, 0)
	v.airCoefs.Update(dsp.BiquadHighShelf, v.sampleRate, vocalAirHz, 0.707, 6)

	bandL := v.lpStateL.Process(&v.lpCoefs, v.hpStateL.Process(&v.hpCoefs, float64(in.L)))
	bandR := v.lpStateR.Process(&v.lpCoefs, v.hpStateR.Process(&v.hpCoefs, float64(in.R)))

	drive := cfg.Clarity / 100 * 3
	harmL := harmonicShape(float32(bandL), drive)
	harmR := harmonicShape(float32(bandR), drive)
	clarityMix := float32(cfg.Clarity / 100)

	withClarity := dsp.Stereo{
		L: in.L + harmL*clarityMix,
		R: in.R + harmR*clarityMix,
	}

	airL := float32(v.airStateL.Process(&v.airCoefs, float64(withClarity.L)))
	airR := float32(v.airStateR.Process(&v.airCoefs, float64(withClarity.R)))
	airMix := float32(cfg.Air / 100)

	return dsp.Stereo{
		L: withClarity.L*(1-airMix) + airL*airMix,
		R: withClarity.R*(1-airMix) + airR*airMix,
	}
}

func (v *VocalClarity) Reset() {
	v.hpStateL.Reset()
	v.hpStateR.Reset()
	v.lpStateL.Reset()
	v.lpStateR.Reset()
	v.airStateL.Reset()
	v.airStateR.Reset()
}

var _ dsp.Effect = (*VocalClarity)(nil)

func (v *VocalClarity) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "clarity", Unit: "%", Min: 0, Max: 100, Default: 50},
		{Index: 1, Name: "air", Unit: "%", Min: 0, Max: 100, Default: 25},
	}
}

func (v *VocalClarity) SetParam(index int, value float64) {
	specs := v.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := v.cfg.Load()
	switch index {
	case 0:
		cfg.Clarity = value
	case 1:
		cfg.Air = value
	}
	v.SetConfig(cfg)
}

func (v *VocalClarity) Param(index int) float64 {
	cfg := v.cfg.Load()
	switch index {
	case 0:
		return cfg.Clarity
	case 1:
		return cfg.Air
	}
	return 0
}

func (v *VocalClarity) Bypass() bool          { return v.bypass.Get() }
func (v *VocalClarity) SetBypass(bypass bool) { v.bypass.Set(bypass) }
func (v *VocalClarity) WetDry() float64       { return v.wetDry.Get() }
func (v *VocalClarity) SetWetDry(mix float64) { v.wetDry.Set(mix) }
