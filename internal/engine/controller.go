package engine

import (
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/dsp/eq"
	"github.com/loopback-audio/fxcore/internal/fxerr"
)

// MeterSnapshot is the four-scalar meter surface read by the controller at
// the UI cadence.
type MeterSnapshot struct {
	InputL, InputR, OutputL, OutputR float32
}

// Meters returns the chain's current input/output peak meters.
func (e *Engine) Meters() MeterSnapshot {
	inL, inR, outL, outR := e.chain.Meters()
	return MeterSnapshot{InputL: inL, InputR: inR, OutputL: outL, OutputR: outR}
}

// Spectrum returns the most recent smoothed spectrum snapshot (dB-scaled,
// BinCount bins), or nil if the analyzer hasn't accumulated a full window
// yet. Intended for the controller/UI thread only.
func (e *Engine) Spectrum() []float64 {
	return e.analyzer.Snapshot()
}

// Underruns and Overruns expose the ring buffer's observability counters.
func (e *Engine) Underruns() uint64 { return e.buf.Underruns() }
func (e *Engine) Overruns() uint64  { return e.buf.Overruns() }

// SetParam clamps value to kind's documented range (ParameterOutOfRange is
// never fatal, per spec.md §7) and publishes it to the named effect, if
// present in the chain.
func (e *Engine) SetParam(kind dsp.Kind, index int, value float64) error {
	effect, ok := e.effects[kind]
	if !ok {
		return fxerr.New("engine.SetParam", fxerr.ParameterOutOfRange, nil)
	}
	effect.SetParam(index, value)
	return nil
}

// Param returns the current value of a parameter on the named effect.
func (e *Engine) Param(kind dsp.Kind, index int) (float64, bool) {
	effect, ok := e.effects[kind]
	if !ok {
		return 0, false
	}
	return effect.Param(index), true
}

// SetBypass toggles bypass on the named effect.
func (e *Engine) SetBypass(kind dsp.Kind, bypass bool) {
	if effect, ok := e.effects[kind]; ok {
		effect.SetBypass(bypass)
	}
}

// Bypass reports whether the named effect is bypassed.
func (e *Engine) Bypass(kind dsp.Kind) bool {
	effect, ok := e.effects[kind]
	return ok && effect.Bypass()
}

// SetWetDry sets the named effect's wet/dry mix, clamped to [0,1].
func (e *Engine) SetWetDry(kind dsp.Kind, mix float64) {
	if effect, ok := e.effects[kind]; ok {
		effect.SetWetDry(mix)
	}
}

// EQ returns the chain's parametric EQ effect for band-level control (band
// reassignment, per-band solo, frequency response), or nil if the current
// chain has no EQ stage.
func (e *Engine) EQ() *eq.EQ { return e.eqEffect }

// GainReductionDB reports the compressor and/or limiter's current gain
// reduction, in dB, if those effects are present in the chain.
func (e *Engine) GainReductionDB(kind dsp.Kind) float64 {
	switch effect := e.effects[kind].(type) {
	case interface{ GainReductionDB() float64 }:
		return effect.GainReductionDB()
	default:
		return 0
	}
}
