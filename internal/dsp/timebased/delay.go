// Package timebased implements the stereo delay and reverb effects, both
// built on dsp.DelayLine-based comb/all-pass networks.
package timebased

import (
	"math"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// DelayConfig is the published parameter bundle for Delay.
type DelayConfig struct {
	TimeMs     float64
	Feedback   float64
	StereoWide bool // when true, right channel's tap is offset for a ping-pong feel
}

// DefaultDelayConfig matches the spec's documented parameter table.
func DefaultDelayConfig() DelayConfig {
	return DelayConfig{TimeMs: 250, Feedback: 0.3}
}

const maxDelayMs = 2000
const feedbackMax = 0.95

// timeSmoothingMs sets how quickly a time-parameter change is approached, to
// avoid the audible click of jumping the read offset outright.
const timeSmoothingMs = 20

// Delay is a stereo delay line with parameter-smoothed time and
// feedback-clamped regeneration.
type Delay struct {
	cfg         *param.Snapshot[DelayConfig]
	lineL       *dsp.DelayLine
	lineR       *dsp.DelayLine
	sampleRate  float64
	currentTime float64 // smoothed, in samples
	smoothCoef  float32

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// NewDelay returns a Delay at the given sample rate, sized for maxDelayMs.
func NewDelay(sampleRate float64) *Delay {
	maxSamples := int(maxDelayMs * 0.001 * sampleRate)
	d := &Delay{
		cfg:        param.NewSnapshot(DefaultDelayConfig()),
		lineL:      dsp.NewDelayLine(maxSamples),
		lineR:      dsp.NewDelayLine(maxSamples),
		sampleRate: sampleRate,
		wetDry:     dsp.NewWetDryMix(0.5),
	}
	d.currentTime = DefaultDelayConfig().TimeMs * 0.001 * sampleRate
	d.smoothCoef = float32(expCoef(timeSmoothingMs, sampleRate))
	return d
}

func (d *Delay) Name() string  { return "Delay" }
func (d *Delay) Kind() dsp.Kind { return dsp.KindDelay }

func (d *Delay) SetConfig(cfg DelayConfig) {
	if cfg.Feedback < 0 {
		cfg.Feedback = 0
	}
	if cfg.Feedback > feedbackMax {
		cfg.Feedback = feedbackMax
	}
	if cfg.TimeMs < 0 {
		cfg.TimeMs = 0
	}
	if cfg.TimeMs > maxDelayMs {
		cfg.TimeMs = maxDelayMs
	}
	d.cfg.Store(cfg)
}

func (d *Delay) Config() DelayConfig { return d.cfg.Load() }

func (d *Delay) Process(in dsp.Stereo) dsp.Stereo {
	cfg := d.cfg.Load()
	targetSamples := cfg.TimeMs * 0.001 * d.sampleRate

	c := float64(d.smoothCoef)
	d.currentTime = c*d.currentTime + (1-c)*targetSamples
	offset := int(d.currentTime)

	offsetR := offset
	if cfg.StereoWide {
		offsetR = offset + int(0.02*d.sampleRate)
		if offsetR >= d.lineR.Len() {
			offsetR = d.lineR.Len() - 1
		}
	}

	fb := float32(cfg.Feedback)
	wetL := d.lineL.ReadWrite(in.L, offset, fb)
	wetR := d.lineR.ReadWrite(in.R, offsetR, fb)

	return dsp.Stereo{L: wetL, R: wetR}
}

func (d *Delay) Reset() {
	d.lineL.Reset()
	d.lineR.Reset()
	d.currentTime = d.cfg.Load().TimeMs * 0.001 * d.sampleRate
}

// expCoef derives a one-pole smoothing coefficient with the same
// exp(-1/(ms*0.001*fs)) shape used throughout the chain's ballistics.
func expCoef(ms, sampleRate float64) float64 {
	return math.Exp(-1 / (ms * 0.001 * sampleRate))
}

var _ dsp.Effect = (*Delay)(nil)

func (d *Delay) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "time", Unit: "ms", Min: 1, Max: maxDelayMs, Default: 250},
		{Index: 1, Name: "feedback", Unit: "", Min: 0, Max: feedbackMax, Default: 0.3},
	}
}

func (d *Delay) SetParam(index int, value float64) {
	specs := d.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := d.cfg.Load()
	switch index {
	case 0:
		cfg.TimeMs = value
	case 1:
		cfg.Feedback = value
	}
	d.SetConfig(cfg)
}

func (d *Delay) Param(index int) float64 {
	cfg := d.cfg.Load()
	switch index {
	case 0:
		return cfg.TimeMs
	case 1:
		return cfg.Feedback
	}
	return 0
}

func (d *Delay) Bypass() bool          { return d.bypass.Get() }
func (d *Delay) SetBypass(bypass bool) { d.bypass.Set(bypass) }
func (d *Delay) WetDry() float64       { return d.wetDry.Get() }
func (d *Delay) SetWetDry(mix float64) { d.wetDry.Set(mix) }
