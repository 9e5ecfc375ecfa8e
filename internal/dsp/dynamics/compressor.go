// Package dynamics implements the compressor and limiter effects: both are
// feed-forward gain-reduction stages built on dsp.EnvelopeFollower, differing
// in detection ballistics and whether they look ahead.
package dynamics

import (
	"math"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// CompressorConfig is the published parameter bundle for Compressor.
type CompressorConfig struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
	MakeupDB    float64
}

// DefaultCompressorConfig matches the spec's documented parameter table.
func DefaultCompressorConfig() CompressorConfig {
	return CompressorConfig{ThresholdDB: -12, Ratio: 4, AttackMs: 10, ReleaseMs: 100, MakeupDB: 0}
}

const thresholdFloorDB = -60

// Compressor is a feed-forward peak compressor with a stereo-linked
// (shared) envelope: the same envelope value applies gain reduction to both
// channels so the stereo image never shifts under reduction.
type Compressor struct {
	cfg        *param.Snapshot[CompressorConfig]
	env        dsp.EnvelopeFollower
	sampleRate float64
	lastGRDB   float64

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// NewCompressor returns a Compressor at the given sample rate with default
// parameters.
func NewCompressor(sampleRate float64) *Compressor {
	c := &Compressor{
		cfg:        param.NewSnapshot(DefaultCompressorConfig()),
		sampleRate: sampleRate,
		wetDry:     dsp.NewWetDryMix(1.0),
	}
	c.env = *dsp.NewEnvelopeFollower(dsp.AttackRelease, sampleRate, DefaultCompressorConfig().AttackMs, DefaultCompressorConfig().ReleaseMs)
	return c
}

func (c *Compressor) Name() string  { return "Compressor" }
func (c *Compressor) Kind() dsp.Kind { return dsp.KindCompressor }

// SetConfig publishes a new parameter bundle, clamping ratio to [1,∞) and
// threshold to the floor per spec.
func (c *Compressor) SetConfig(cfg CompressorConfig) {
	if cfg.Ratio < 1 {
		cfg.Ratio = 1
	}
	if cfg.ThresholdDB < thresholdFloorDB {
		cfg.ThresholdDB = thresholdFloorDB
	}
	c.cfg.Store(cfg)
}

func (c *Compressor) Config() CompressorConfig { return c.cfg.Load() }

// GainReductionDB reports the most recently applied gain reduction, in dB
// (always ≤ 0), for UI metering.
func (c *Compressor) GainReductionDB() float64 { return c.lastGRDB }

// Process applies feed-forward peak detection across both channels (the
// maximum absolute sample drives the shared envelope), computes gain
// reduction above threshold, and applies makeup gain.
func (c *Compressor) Process(in dsp.Stereo) dsp.Stereo {
	cfg := c.cfg.Load()
	c.env.Configure(c.sampleRate, cfg.AttackMs, cfg.ReleaseMs)

	peak := float32(math.Max(math.Abs(float64(in.L)), math.Abs(float64(in.R))))
	envLin := c.env.Process(peak)

	envDB := linToDB(float64(envLin))
	grDB := 0.0
	if envDB > cfg.ThresholdDB {
		grDB = (envDB - cfg.ThresholdDB) * (1 - 1/cfg.Ratio)
	}
	c.lastGRDB = -grDB

	gain := dbToLin(-grDB + cfg.MakeupDB)
	g := float32(gain)
	return dsp.Stereo{L: in.L * g, R: in.R * g}
}

func (c *Compressor) Reset() {
	c.env.Reset()
	c.lastGRDB = 0
}

func linToDB(lin float64) float64 {
	if lin <= 1e-10 {
		return -200
	}
	return 20 * math.Log10(lin)
}

func dbToLin(db float64) float64 {
	return math.Pow(10, db/20)
}

var _ dsp.Effect = (*Compressor)(nil)

func (c *Compressor) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "threshold", Unit: "dB", Min: thresholdFloorDB, Max: 0, Default: -12},
		{Index: 1, Name: "ratio", Unit: "", Min: 1, Max: 20, Default: 4},
		{Index: 2, Name: "attack", Unit: "ms", Min: 0.1, Max: 100, Default: 10},
		{Index: 3, Name: "release", Unit: "ms", Min: 10, Max: 2000, Default: 100},
		{Index: 4, Name: "makeup", Unit: "dB", Min: -12, Max: 24, Default: 0},
	}
}

func (c *Compressor) SetParam(index int, value float64) {
	specs := c.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := c.cfg.Load()
	switch index {
	case 0:
		cfg.ThresholdDB = value
	case 1:
		cfg.Ratio = value
	case 2:
		cfg.AttackMs = value
	case 3:
		cfg.ReleaseMs = value
	case 4:
		cfg.MakeupDB = value
	}
	c.SetConfig(cfg)
}

func (c *Compressor) Param(index int) float64 {
	cfg := c.cfg.Load()
	switch index {
	case 0:
		return cfg.ThresholdDB
	case 1:
		return cfg.Ratio
	case 2:
		return cfg.AttackMs
	case 3:
		return cfg.ReleaseMs
	case 4:
		return cfg.MakeupDB
	}
	return 0
}

func (c *Compressor) Bypass() bool          { return c.bypass.Get() }
func (c *Compressor) SetBypass(bypass bool) { c.bypass.Set(bypass) }
func (c *Compressor) WetDry() float64       { return c.wetDry.Get() }
func (c *Compressor) SetWetDry(mix float64) { c.wetDry.Set(mix) }
