package dynamics

import (
	"math"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// LimiterConfig is the published parameter bundle for Limiter.
type LimiterConfig struct {
	CeilingDB float64
	ReleaseMs float64
}

// DefaultLimiterConfig is a transparent brickwall at -0.3dBFS.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{CeilingDB: -0.3, ReleaseMs: 50}
}

const lookaheadMs = 5.0

// Limiter is a true-peak brickwall limiter: a look-ahead delay line lets the
// instant-attack envelope follower "see" an upcoming peak before it reaches
// the output, so gain reduction is already in place when the peak arrives.
type Limiter struct {
	cfg        *param.Snapshot[LimiterConfig]
	env        dsp.EnvelopeFollower
	delayL     *dsp.DelayLine
	delayR     *dsp.DelayLine
	lookahead  int
	sampleRate float64
	lastGRDB   float64

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// NewLimiter returns a Limiter at the given sample rate with a look-ahead
// buffer sized for lookaheadMs.
func NewLimiter(sampleRate float64) *Limiter {
	lookahead := int(lookaheadMs * 0.001 * sampleRate)
	if lookahead < 1 {
		lookahead = 1
	}
	l := &Limiter{
		cfg:        param.NewSnapshot(DefaultLimiterConfig()),
		sampleRate: sampleRate,
		lookahead:  lookahead,
		delayL:     dsp.NewDelayLine(lookahead + 1),
		delayR:     dsp.NewDelayLine(lookahead + 1),
		wetDry:     dsp.NewWetDryMix(1.0),
	}
	l.env = *dsp.NewEnvelopeFollower(dsp.InstantAttack, sampleRate, 0, DefaultLimiterConfig().ReleaseMs)
	return l
}

func (l *Limiter) Name() string  { return "Limiter" }
func (l *Limiter) Kind() dsp.Kind { return dsp.KindLimiter }

func (l *Limiter) SetConfig(cfg LimiterConfig) { l.cfg.Store(cfg) }
func (l *Limiter) Config() LimiterConfig       { return l.cfg.Load() }

// GainReductionDB reports the most recently applied gain reduction, in dB
// (always ≤ 0).
func (l *Limiter) GainReductionDB() float64 { return l.lastGRDB }

// Process feeds the undelayed peak into the envelope follower (so gain
// reduction is computed one look-ahead window early), writes the input into
// the look-ahead delay, and applies the reduction to the delayed sample —
// the true-peak brickwall never lets the delayed output exceed ceiling.
func (l *Limiter) Process(in dsp.Stereo) dsp.Stereo {
	cfg := l.cfg.Load()
	l.env.Configure(l.sampleRate, 0, cfg.ReleaseMs)

	peak := float32(math.Max(math.Abs(float64(in.L)), math.Abs(float64(in.R))))
	envLin := l.env.Process(peak)

	ceilingLin := dbToLin(cfg.CeilingDB)
	gain := 1.0
	if float64(envLin) > 1e-9 {
		gain = math.Min(1.0, ceilingLin/float64(envLin))
	}
	l.lastGRDB = -linToDB(1 / math.Max(gain, 1e-9))

	delayedL := l.delayL.ReadWrite(in.L, l.lookahead, 0)
	delayedR := l.delayR.ReadWrite(in.R, l.lookahead, 0)

	g := float32(gain)
	out := dsp.Stereo{L: delayedL * g, R: delayedR * g}

	// Hard safety clamp: ballistics round-off must never let true output
	// exceed ceiling.
	if out.L > float32(ceilingLin) {
		out.L = float32(ceilingLin)
	} else if out.L < -float32(ceilingLin) {
		out.L = -float32(ceilingLin)
	}
	if out.R > float32(ceilingLin) {
		out.R = float32(ceilingLin)
	} else if out.R < -float32(ceilingLin) {
		out.R = -float32(ceilingLin)
	}
	return out
}

func (l *Limiter) Reset() {
	l.env.Reset()
	l.delayL.Reset()
	l.delayR.Reset()
	l.lastGRDB = 0
}

var _ dsp.Effect = (*Limiter)(nil)

func (l *Limiter) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "ceiling", Unit: "dB", Min: -12, Max: 0, Default: -0.3},
		{Index: 1, Name: "release", Unit: "ms", Min: 10, Max: 500, Default: 50},
	}
}

func (l *Limiter) SetParam(index int, value float64) {
	specs := l.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := l.cfg.Load()
	switch index {
	case 0:
		cfg.CeilingDB = value
	case 1:
		cfg.ReleaseMs = value
	}
	l.SetConfig(cfg)
}

func (l *Limiter) Param(index int) float64 {
	cfg := l.cfg.Load()
	switch index {
	case 0:
		return cfg.CeilingDB
	case 1:
		return cfg.ReleaseMs
	}
	return 0
}

func (l *Limiter) Bypass() bool          { return l.bypass.Get() }
func (l *Limiter) SetBypass(bypass bool) { l.bypass.Set(bypass) }
func (l *Limiter) WetDry() float64       { return l.wetDry.Get() }
func (l *Limiter) SetWetDry(mix float64) { l.wetDry.Set(mix) }
