package enhance

import (
	"math"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

const gainSmoothingMs = 20

// OutputGain is the final link of the default chain: a smoothed linear
// scalar derived from a dB parameter, to avoid zipper noise on automation.
type OutputGain struct {
	gainDB     *param.Snapshot[float64]
	current    float32
	smoothCoef float32

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

func NewOutputGain(sampleRate float64) *OutputGain {
	g := &OutputGain{
		gainDB:     param.NewSnapshot(0.0),
		current:    1.0,
		smoothCoef: float32(math.Exp(-1 / (gainSmoothingMs * 0.001 * sampleRate))),
		wetDry:     dsp.NewWetDryMix(1.0),
	}
	return g
}

func (g *OutputGain) Name() string  { return "Output Gain" }
func (g *OutputGain) Kind() dsp.Kind { return dsp.KindGain }

func (g *OutputGain) SetGainDB(db float64) {
	g.gainDB.Store(clampRange(db, -24, 24))
}

func (g *OutputGain) GainDB() float64 { return g.gainDB.Load() }

func (g *OutputGain) Process(in dsp.Stereo) dsp.Stereo {
	target := float32(math.Pow(10, g.gainDB.Load()/20))
	c := g.smoothCoef
	g.current = c*g.current + (1-c)*target
	g.current = dsp.FlushDenormal(g.current)
	return dsp.Stereo{L: in.L * g.current, R: in.R * g.current}
}

func (g *OutputGain) Reset() {}

var _ dsp.Effect = (*OutputGain)(nil)

func (g *OutputGain) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "gain", Unit: "dB", Min: -24, Max: 24, Default: 0},
	}
}

func (g *OutputGain) SetParam(index int, value float64) {
	if index != 0 {
		return
	}
	g.SetGainDB(g.Params()[0].Clamp(value))
}

func (g *OutputGain) Param(index int) float64 {
	if index != 0 {
		return 0
	}
	return g.GainDB()
}

func (g *OutputGain) Bypass() bool          { return g.bypass.Get() }
func (g *OutputGain) SetBypass(bypass bool) { g.bypass.Set(bypass) }
func (g *OutputGain) WetDry() float64       { return g.wetDry.Get() }
func (g *OutputGain) SetWetDry(mix float64) { g.wetDry.Set(mix) }
