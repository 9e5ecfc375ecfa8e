package dsp

import "sync/atomic"

// Kind identifies an effect's type for logging, config, and the controller's
// effect lookup. Mirrors the ProcessorType enums found throughout the DSP
// framework examples the chain design is grounded on.
type Kind string

const (
	KindEQ         Kind = "eq"
	KindBass       Kind = "bass"
	KindVocal      Kind = "vocal"
	KindCompressor Kind = "compressor"
	KindReverb     Kind = "reverb"
	KindDelay      Kind = "delay"
	KindWidener    Kind = "widener"
	KindLimiter    Kind = "limiter"
	KindGain       Kind = "gain"
)

// ParamSpec describes one entry of an effect's parameter vector: its index,
// name, unit, closed range, and default. The controller clamps any write
// outside [Min, Max] rather than rejecting it (spec: ParameterOutOfRange is
// never fatal).
type ParamSpec struct {
	Index   int
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

// Clamp restricts v to the spec's closed range.
func (p ParamSpec) Clamp(v float64) float64 {
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// Effect is the uniform capability set every chain member implements:
// process, reset, a bypass flag, a wet/dry scalar, and a numbered parameter
// vector. Process must be pure with respect to internal state — no
// allocation, no blocking, no syscalls — because it runs on the render
// callback.
type Effect interface {
	// Name is a human-readable identity, e.g. "5-Band EQ".
	Name() string
	// Kind is the machine-readable identity used for config/logging.
	Kind() Kind
	// Process transforms one stereo sample. Called once per frame by the
	// chain, in chain order, for every non-bypassed effect.
	Process(in Stereo) Stereo
	// Reset clears all internal state (delay lines, filter memory,
	// envelope followers). Called only when the stream is stopped or a
	// large state change (preset load) requires it.
	Reset()
	// Params returns the effect's parameter table (index, name, unit,
	// range, default); current values are read with Param.
	Params() []ParamSpec
	// SetParam clamps value to the spec's range and publishes it for the
	// next Process call to observe. Safe to call from the controller
	// thread while Process runs concurrently on the audio thread.
	SetParam(index int, value float64)
	// Param returns the current (already-clamped) value of a parameter.
	Param(index int) float64
	// Bypass reports whether the effect is currently bypassed.
	Bypass() bool
	// SetBypass toggles bypass. Relaxed atomic; safe from any thread.
	SetBypass(bypass bool)
	// WetDry returns the current wet/dry mix in [0,1].
	WetDry() float64
	// SetWetDry sets the wet/dry mix, clamped to [0,1].
	SetWetDry(mix float64)
}

// BypassFlag is a small helper embeddable in concrete effects: a relaxed
// atomic boolean read once per sample on the audio thread and written from
// the controller thread without blocking it.
type BypassFlag struct {
	v atomic.Bool
}

func (b *BypassFlag) Get() bool      { return b.v.Load() }
func (b *BypassFlag) Set(bypass bool) { b.v.Store(bypass) }

// WetDryMix is a small helper embeddable in concrete effects: an atomic
// float32 (bit-cast through atomic.Uint32) in [0,1].
type WetDryMix struct {
	bits atomic.Uint32
}

// NewWetDryMix returns a WetDryMix initialized to the given value.
func NewWetDryMix(initial float64) *WetDryMix {
	w := &WetDryMix{}
	w.Set(initial)
	return w
}

func (w *WetDryMix) Get() float64 {
	return float64(float32FromBits(w.bits.Load()))
}

func (w *WetDryMix) Set(mix float64) {
	if mix < 0 {
		mix = 0
	}
	if mix > 1 {
		mix = 1
	}
	w.bits.Store(float32Bits(float32(mix)))
}

// Blend applies the chain's wet/dry combination rule: y = x·(1-w) + wet·w.
func Blend(dry, wet Stereo, mix float64) Stereo {
	w := float32(mix)
	return Stereo{
		L: dry.L*(1-w) + wet.L*w,
		R: dry.R*(1-w) + wet.R*w,
	}
}
