package ring

import "github.com/loopback-audio/fxcore/internal/dsp"

// DefaultFadeSamples bounds the underrun fade-out tail at roughly 64
// frames (~1.3ms at 48kHz), used when a FadeState is never explicitly
// configured with NewFadeState.
const DefaultFadeSamples = 64

// FadeState is consumer-private: the last valid popped sample and a fade
// counter in [0, fadeSamples]. While the counter is within range the
// consumer emits lastValid*(1-p)^2 for p = counter/fadeSamples; beyond that
// it emits silence. A successful Pop resets both.
type FadeState struct {
	lastValid   dsp.Stereo
	counter     int
	fadeSamples int
}

// NewFadeState returns a FadeState whose fade-out tail runs for
// fadeSamples frames, per the engine's configured EngineConfig.FadeSamples.
func NewFadeState(fadeSamples int) FadeState {
	if fadeSamples <= 0 {
		fadeSamples = DefaultFadeSamples
	}
	return FadeState{fadeSamples: fadeSamples}
}

// length returns the configured fade length, falling back to
// DefaultFadeSamples for a zero-value FadeState (e.g. declared as a bare
// struct field rather than built via NewFadeState).
func (f *FadeState) length() int {
	if f.fadeSamples <= 0 {
		return DefaultFadeSamples
	}
	return f.fadeSamples
}

// OnPopped resets the fade state after a successful Pop.
func (f *FadeState) OnPopped(frame dsp.Stereo) {
	f.lastValid = frame
	f.counter = 0
}

// Next advances the fade counter and returns the next faded-out sample, or
// silence once the tail is exhausted.
func (f *FadeState) Next() dsp.Stereo {
	n := f.length()
	if f.counter > n {
		return dsp.Stereo{}
	}
	p := float32(f.counter) / float32(n)
	gain := (1 - p) * (1 - p)
	f.counter++
	return dsp.Stereo{L: f.lastValid.L * gain, R: f.lastValid.R * gain}
}

// Reset clears the fade state's counter and last-valid sample, preserving
// the configured fade length, e.g. when the ring buffer signals a
// controller-initiated Clear.
func (f *FadeState) Reset() {
	f.lastValid = dsp.Stereo{}
	f.counter = 0
}
