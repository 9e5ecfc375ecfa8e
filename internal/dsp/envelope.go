package dsp

// EnvelopeMode selects how an EnvelopeFollower reacts to a rising input.
type EnvelopeMode int

const (
	// AttackRelease smooths both rising and falling input with separate
	// time constants.
	AttackRelease EnvelopeMode = iota
	// InstantAttack jumps immediately to any new peak higher than the
	// current envelope value, and only smooths the fall (used by the
	// limiter's look-ahead detector).
	InstantAttack
)

// EnvelopeFollower is a single-pole smoother used by the compressor and
// limiter. Coefficients are derived from
// exp(-1/(timeMs*0.001*sampleRate)); the value is flushed to zero below
// 1e-15 to avoid denormal stalls.
type EnvelopeFollower struct {
	mode        EnvelopeMode
	sampleRate  float64
	attackMs    float64
	releaseMs   float64
	attackCoef  float32
	releaseCoef float32
	value       float32
}

// NewEnvelopeFollower returns a follower configured for the given sample
// rate and attack/release times in milliseconds.
func NewEnvelopeFollower(mode EnvelopeMode, sampleRate, attackMs, releaseMs float64) *EnvelopeFollower {
	f := &EnvelopeFollower{mode: mode}
	f.Configure(sampleRate, attackMs, releaseMs)
	return f
}

// Configure updates the time constants, recomputing coefficients only when
// an input actually changed.
func (f *EnvelopeFollower) Configure(sampleRate, attackMs, releaseMs float64) {
	if sampleRate == f.sampleRate && attackMs == f.attackMs && releaseMs == f.releaseMs {
		return
	}
	f.sampleRate, f.attackMs, f.releaseMs = sampleRate, attackMs, releaseMs
	f.attackCoef = ballisticsCoef(attackMs, sampleRate)
	f.releaseCoef = ballisticsCoef(releaseMs, sampleRate)
}

// Process feeds one instantaneous target value (typically |x| or a peak)
// and returns the smoothed envelope.
func (f *EnvelopeFollower) Process(target float32) float32 {
	switch f.mode {
	case InstantAttack:
		if target > f.value {
			f.value = target
		} else {
			f.value = f.releaseCoef*f.value + (1-f.releaseCoef)*target
		}
	default:
		var coef float32
		if target > f.value {
			coef = f.attackCoef
		} else {
			coef = f.releaseCoef
		}
		f.value = coef*f.value + (1-coef)*target
	}
	if f.value < 1e-15 && f.value > -1e-15 {
		f.value = 0
	}
	return f.value
}

// Value returns the current envelope value without advancing state.
func (f *EnvelopeFollower) Value() float32 { return f.value }

// Reset zeroes the envelope value.
func (f *EnvelopeFollower) Reset() { f.value = 0 }
