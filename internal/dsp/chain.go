package dsp

import (
	"math"
	"sync"
	"sync/atomic"
)

// Chain composes effects in a fixed order and meters pre/post levels
// without locking the audio thread. Membership changes (Add) are
// guarded by a short mutex used only on the controller thread; the audio
// thread reads an immutable snapshot slice swapped in atomically, so a
// single Process call always sees one consistent ordering.
type Chain struct {
	mu       sync.Mutex
	effects  atomic.Pointer[[]Effect]
	inMeter  stereoMeter
	outMeter stereoMeter
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	c := &Chain{}
	empty := []Effect{}
	c.effects.Store(&empty)
	return c
}

// Add appends effect to the end of the chain. Per spec, membership changes
// are disallowed while the engine is streaming — callers must only invoke
// this while the engine is Stopped.
func (c *Chain) Add(e Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := *c.effects.Load()
	next := make([]Effect, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = e
	c.effects.Store(&next)
}

// List returns a snapshot copy of the current chain membership, for
// controller-side inspection only (e.g. a UI listing effects).
func (c *Chain) List() []Effect {
	snap := *c.effects.Load()
	out := make([]Effect, len(snap))
	copy(out, snap)
	return out
}

// Count returns the number of effects currently in the chain.
func (c *Chain) Count() int {
	return len(*c.effects.Load())
}

// Process runs in through every non-bypassed effect in chain order,
// blending each with its wet/dry scalar, and updates the input/output peak
// meters. Called once per frame from the render callback.
func (c *Chain) Process(in Stereo) Stereo {
	c.inMeter.update(in)

	snap := *c.effects.Load()
	out := in
	for _, e := range snap {
		if e.Bypass() {
			continue
		}
		wet := e.Process(out)
		out = Blend(out, wet, e.WetDry())
	}

	c.outMeter.update(out)
	return out
}

// Reset clears every effect's internal state. Called when the stream stops
// or a preset load requires a clean slate.
func (c *Chain) Reset() {
	for _, e := range c.List() {
		e.Reset()
	}
	c.inMeter.reset()
	c.outMeter.reset()
}

// Meters returns the current input/output peak envelopes (L, R) in that
// order. Safe to call from the controller thread at UI cadence; a
// one-frame-old reading is acceptable per the spec's ordering guarantees.
func (c *Chain) Meters() (inL, inR, outL, outR float32) {
	return c.inMeter.l.Load32(), c.inMeter.r.Load32(), c.outMeter.l.Load32(), c.outMeter.r.Load32()
}

// meterAttackMs / meterReleaseMs are the asymmetric ballistics spec.md §4.2
// specifies: fast attack, slow release.
const (
	meterAttackMs  = 1.0
	meterReleaseMs = 300.0
)

// atomicFloat32 is a float32 published via bit-cast atomic.Uint32, used for
// meter scalars the controller thread polls at UI cadence.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (a *atomicFloat32) Load32() float32    { return float32FromBits(a.bits.Load()) }
func (a *atomicFloat32) Store32(v float32)  { a.bits.Store(float32Bits(v)) }

// channelMeter tracks one channel's smoothed peak envelope.
type channelMeter struct {
	env   float32 // audio-thread-private running value
	atomicFloat32
}

func (m *channelMeter) update(sample float32, attackCoef, releaseCoef float32) {
	target := float32(math.Abs(float64(sample)))
	var coef float32
	if target > m.env {
		coef = attackCoef
	} else {
		coef = releaseCoef
	}
	m.env = coef*m.env + (1-coef)*target
	if m.env < 1e-10 {
		m.env = 0
	}
	m.Store32(m.env)
}

func (m *channelMeter) reset() {
	m.env = 0
	m.Store32(0)
}

// stereoMeter is a pair of channelMeters sharing the same sample-rate-
// derived ballistics coefficients.
type stereoMeter struct {
	l, r        channelMeter
	sampleRate  float64
	attackCoef  float32
	releaseCoef float32
}

func (m *stereoMeter) ensureCoefs() {
	if m.sampleRate == 0 {
		m.sampleRate = 48000
	}
	if m.attackCoef == 0 && m.releaseCoef == 0 {
		m.attackCoef = ballisticsCoef(meterAttackMs, m.sampleRate)
		m.releaseCoef = ballisticsCoef(meterReleaseMs, m.sampleRate)
	}
}

func (m *stereoMeter) update(s Stereo) {
	m.ensureCoefs()
	m.l.update(s.L, m.attackCoef, m.releaseCoef)
	m.r.update(s.R, m.attackCoef, m.releaseCoef)
}

func (m *stereoMeter) reset() {
	m.l.reset()
	m.r.reset()
}

// SetSampleRate configures the meter's ballistics for the actual device
// rate. Must be called before streaming begins.
func (c *Chain) SetSampleRate(sr float64) {
	c.inMeter.sampleRate = sr
	c.inMeter.attackCoef = ballisticsCoef(meterAttackMs, sr)
	c.inMeter.releaseCoef = ballisticsCoef(meterReleaseMs, sr)
	c.outMeter.sampleRate = sr
	c.outMeter.attackCoef = ballisticsCoef(meterAttackMs, sr)
	c.outMeter.releaseCoef = ballisticsCoef(meterReleaseMs, sr)
}

// ballisticsCoef derives a one-pole smoothing coefficient from a time
// constant in milliseconds, shared by the chain's meters and
// EnvelopeFollower.
func ballisticsCoef(ms, sampleRate float64) float32 {
	return float32(math.Exp(-1.0 / (ms * 0.001 * sampleRate)))
}
