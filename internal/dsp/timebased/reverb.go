package timebased

import (
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// ReverbConfig is the published parameter bundle for Reverb.
type ReverbConfig struct {
	RoomSize float64 // 0..1, scales comb feedback (comb delay times are fixed)
	Damping  float64 // 0..1, one-pole lowpass coefficient in the comb feedback path
	Width    float64 // 0..1, cross-mix amount between the two channels
}

// DefaultReverbConfig is a medium room with moderate damping.
func DefaultReverbConfig() ReverbConfig {
	return ReverbConfig{RoomSize: 0.5, Damping: 0.5, Width: 1.0}
}

// combTunings are the classic Schroeder/Freeverb comb delay lengths in
// samples at 44100Hz; scaled to the engine's actual sample rate at
// construction.
var combTunings = [4]float64{1116, 1188, 1277, 1356}

// allpassTunings are the series all-pass delay lengths, same reference rate.
var allpassTunings = [2]float64{556, 441}

const (
	combFeedbackBase = 0.84
	allpassFeedback  = 0.5
	referenceRate    = 44100.0
	stereoSpread     = 23 // samples offset between L/R comb taps, Freeverb convention
)

type comb struct {
	line     *dsp.DelayLine
	feedback float32
	damp     float32
	lpfState float32
}

func (c *comb) process(x float32) float32 {
	delayed := c.line.Read(c.line.Len() - 1)
	// One-pole damping filter in the feedback path, per spec: "a one-pole
	// damping filter is applied to each comb's feedback path."
	c.lpfState = delayed*(1-c.damp) + c.lpfState*c.damp
	c.lpfState = dsp.FlushDenormal(c.lpfState)
	c.line.Write(x + c.lpfState*c.feedback)
	return delayed
}

func (c *comb) reset() {
	c.line.Reset()
	c.lpfState = 0
}

type allpass struct {
	line *dsp.DelayLine
	g    float32
}

func (a *allpass) process(x float32) float32 {
	delayed := a.line.Read(a.line.Len() - 1)
	y := -x + delayed
	a.line.Write(x + delayed*a.g)
	return dsp.FlushDenormal(y)
}

func (a *allpass) reset() {
	a.line.Reset()
}

type channel struct {
	combs     [4]comb
	allpasses [2]allpass
}

func newChannel(sampleRate float64, spread int) *channel {
	ch := &channel{}
	scale := sampleRate / referenceRate
	for i, t := range combTunings {
		n := int(t*scale) + spread
		if n < 1 {
			n = 1
		}
		ch.combs[i] = comb{line: dsp.NewDelayLine(n), feedback: combFeedbackBase, damp: 0.5}
	}
	for i, t := range allpassTunings {
		n := int(t*scale) + spread
		if n < 1 {
			n = 1
		}
		ch.allpasses[i] = allpass{line: dsp.NewDelayLine(n), g: allpassFeedback}
	}
	return ch
}

func (ch *channel) process(x float32) float32 {
	var sum float32
	for i := range ch.combs {
		sum += ch.combs[i].process(x)
	}
	out := sum / float32(len(ch.combs))
	for i := range ch.allpasses {
		out = ch.allpasses[i].process(out)
	}
	return out
}

func (ch *channel) setRoomAndDamping(roomSize, damping float64) {
	fb := float32(combFeedbackBase * (0.28 + 0.7*roomSize))
	damp := float32(damping)
	for i := range ch.combs {
		ch.combs[i].feedback = fb
		ch.combs[i].damp = damp
	}
}

func (ch *channel) reset() {
	for i := range ch.combs {
		ch.combs[i].reset()
	}
	for i := range ch.allpasses {
		ch.allpasses[i].reset()
	}
}

// Reverb is a Schroeder/Freeverb-style network: four parallel combs feeding
// two series all-passes per channel, with one-pole damping in each comb's
// feedback path and a width control that cross-mixes the two channels.
type Reverb struct {
	cfg  *param.Snapshot[ReverbConfig]
	left *channel
	right *channel

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// NewReverb returns a Reverb at the given sample rate with default room
// parameters.
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{
		cfg:    param.NewSnapshot(DefaultReverbConfig()),
		left:   newChannel(sampleRate, 0),
		right:  newChannel(sampleRate, stereoSpread),
		wetDry: dsp.NewWetDryMix(0.3),
	}
	cfg := DefaultReverbConfig()
	r.left.setRoomAndDamping(cfg.RoomSize, cfg.Damping)
	r.right.setRoomAndDamping(cfg.RoomSize, cfg.Damping)
	return r
}

func (r *Reverb) Name() string  { return "Reverb" }
func (r *Reverb) Kind() dsp.Kind { return dsp.KindReverb }

func (r *Reverb) SetConfig(cfg ReverbConfig) {
	cfg.RoomSize = clamp01(cfg.RoomSize)
	cfg.Damping = clamp01(cfg.Damping)
	cfg.Width = clamp01(cfg.Width)
	r.cfg.Store(cfg)
	r.left.setRoomAndDamping(cfg.RoomSize, cfg.Damping)
	r.right.setRoomAndDamping(cfg.RoomSize, cfg.Damping)
}

func (r *Reverb) Config() ReverbConfig { return r.cfg.Load() }

func (r *Reverb) Process(in dsp.Stereo) dsp.Stereo {
	cfg := r.cfg.Load()
	l := r.left.process(in.L)
	rr := r.right.process(in.R)

	width := float32(cfg.Width)
	mid := (l + rr) * 0.5
	side := (l - rr) * 0.5 * width
	return dsp.Stereo{L: mid + side, R: mid - side}
}

func (r *Reverb) Reset() {
	r.left.reset()
	r.right.reset()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ dsp.Effect = (*Reverb)(nil)

func (r *Reverb) Params() []dsp.ParamSpec {
	return []dsp.ParamSpec{
		{Index: 0, Name: "room_size", Unit: "", Min: 0, Max: 1, Default: 0.5},
		{Index: 1, Name: "damping", Unit: "", Min: 0, Max: 1, Default: 0.5},
		{Index: 2, Name: "width", Unit: "", Min: 0, Max: 1, Default: 1.0},
	}
}

func (r *Reverb) SetParam(index int, value float64) {
	specs := r.Params()
	if index < 0 || index >= len(specs) {
		return
	}
	value = specs[index].Clamp(value)
	cfg := r.cfg.Load()
	switch index {
	case 0:
		cfg.RoomSize = value
	case 1:
		cfg.Damping = value
	case 2:
		cfg.Width = value
	}
	r.SetConfig(cfg)
}

func (r *Reverb) Param(index int) float64 {
	cfg := r.cfg.Load()
	switch index {
	case 0:
		return cfg.RoomSize
	case 1:
		return cfg.Damping
	case 2:
		return cfg.Width
	}
	return 0
}

func (r *Reverb) Bypass() bool          { return r.bypass.Get() }
func (r *Reverb) SetBypass(bypass bool) { r.bypass.Set(bypass) }
func (r *Reverb) WetDry() float64       { return r.wetDry.Get() }
func (r *Reverb) SetWetDry(mix float64) { r.wetDry.Set(mix) }
