// Package eq implements the 5-band parametric equalizer: a biquad cascade
// (minimum phase), per-band solo, and an optional post-cascade saturation
// stage. A LinearPhase mode can be selected but has no FIR path of its own:
// it runs the same biquad cascade.
package eq

import (
	"math"
	"math/cmplx"
	"sync/atomic"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/param"
)

// PhaseMode selects the EQ's processing mode.
type PhaseMode int

const (
	MinimumPhase PhaseMode = iota
	LinearPhase
)

// BandConfig is the plain-old-data parameter bundle for one band, published
// through a param.Snapshot so the audio thread reads a consistent view.
type BandConfig struct {
	Freq   float64
	GainDB float64
	Q      float64
	Kind   dsp.BiquadType
	Bypass bool
}

// DefaultBandConfigs returns the spec's default 5-band layout:
// lowShelf(80Hz), peak(250), peak(1k), peak(4k), highShelf(12kHz).
func DefaultBandConfigs() [5]BandConfig {
	return [5]BandConfig{
		{Freq: 80, GainDB: 0, Q: 0.707, Kind: dsp.BiquadLowShelf},
		{Freq: 250, GainDB: 0, Q: 1.0, Kind: dsp.BiquadPeaking},
		{Freq: 1000, GainDB: 0, Q: 1.0, Kind: dsp.BiquadPeaking},
		{Freq: 4000, GainDB: 0, Q: 1.0, Kind: dsp.BiquadPeaking},
		{Freq: 12000, GainDB: 0, Q: 0.707, Kind: dsp.BiquadHighShelf},
	}
}

const numBands = 5

// band is one cascade stage: its atomically published config, derived
// coefficients (audio-thread-private, lazily recomputed), and per-channel
// state.
type band struct {
	cfg    *param.Snapshot[BandConfig]
	coefs  dsp.BiquadCoefficients
	stateL dsp.BiquadState
	stateR dsp.BiquadState
}

// EQ is the 5-band parametric equalizer effect.
type EQ struct {
	bands      [numBands]band
	solo       param.SoloMask
	sampleRate float64
	phase      PhaseMode
	sat        dsp.Saturator
	satDrive   atomic.Uint32 // bit-cast float32, 0 disables saturation

	bypass dsp.BypassFlag
	wetDry *dsp.WetDryMix
}

// New returns a 5-band EQ with the spec's default band layout at the given
// sample rate.
func New(sampleRate float64) *EQ {
	e := &EQ{sampleRate: sampleRate, wetDry: dsp.NewWetDryMix(1.0)}
	defaults := DefaultBandConfigs()
	for i := range e.bands {
		e.bands[i].cfg = param.NewSnapshot(defaults[i])
	}
	return e
}

func (e *EQ) Name() string  { return "5-Band EQ" }
func (e *EQ) Kind() dsp.Kind { return dsp.KindEQ }

// SetBandConfig publishes a new configuration for band i (0..4).
func (e *EQ) SetBandConfig(i int, cfg BandConfig) {
	if i < 0 || i >= numBands {
		return
	}
	e.bands[i].cfg.Store(cfg)
}

// BandConfig returns the current configuration of band i.
func (e *EQ) BandConfig(i int) BandConfig {
	if i < 0 || i >= numBands {
		return BandConfig{}
	}
	return e.bands[i].cfg.Load()
}

// SetSolo toggles solo state for band i.
func (e *EQ) SetSolo(i int, soloed bool) {
	e.solo.Set(i, soloed)
}

// SetPhaseMode records the selected phase mode. Process does not read it:
// both MinimumPhase and LinearPhase run the minimum-phase biquad cascade.
func (e *EQ) SetPhaseMode(m PhaseMode) { e.phase = m }

// SetSaturationDrive enables the post-cascade saturation stage when drive
// is greater than zero, per spec ("optional saturation stage after the band
// cascade... pass through the saturation stage if its drive > 0").
func (e *EQ) SetSaturationDrive(mode dsp.SaturationMode, drive float64) {
	e.sat.Mode = mode
	e.sat.Drive = drive
	bits := math.Float32bits(float32(drive))
	e.satDrive.Store(bits)
}

// Process runs the band cascade (honoring solo/bypass) and the optional
// saturation stage.
func (e *EQ) Process(in dsp.Stereo) dsp.Stereo {
	l, r := float64(in.L), float64(in.R)
	anySolo := e.solo.Any()

	for i := range e.bands {
		b := &e.bands[i]
		cfg := b.cfg.Load()
		if cfg.Bypass {
			continue
		}
		if anySolo && !e.solo.IsSoloed(i) {
			continue
		}
		b.coefs.Update(cfg.Kind, e.sampleRate, cfg.Freq, cfg.Q, cfg.GainDB)
		l = b.stateL.Process(&b.coefs, l)
		r = b.stateR.Process(&b.coefs, r)
	}

	out := dsp.Stereo{L: float32(l), R: float32(r)}

	if math.Float32frombits(e.satDrive.Load()) > 0 {
		out.L = e.sat.Process(out.L)
		out.R = e.sat.Process(out.R)
	}
	return out
}

// Reset clears every band's filter memory and the saturation stage's
// oversampling state.
func (e *EQ) Reset() {
	for i := range e.bands {
		e.bands[i].stateL.Reset()
		e.bands[i].stateR.Reset()
	}
	e.sat.Reset()
}

// Response evaluates the combined magnitude (linear, not dB) and phase (in
// radians) of the band cascade at freq, for UI display only — never called
// from Process. Per spec: magnitude is the product over bands, phase is the
// sum of per-band phases.
func (e *EQ) Response(freq float64) (magnitude float64, phaseRad float64) {
	magnitude = 1
	w := 2 * math.Pi * freq / e.sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ejw2 := ejw * ejw

	for i := range e.bands {
		cfg := e.bands[i].cfg.Load()
		if cfg.Bypass {
			continue
		}
		var c dsp.BiquadCoefficients
		c.Update(cfg.Kind, e.sampleRate, cfg.Freq, cfg.Q, cfg.GainDB)
		num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ejw2
		den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ejw2
		h := num / den
		magnitude *= cmplx.Abs(h)
		phaseRad += cmplx.Phase(h)
	}
	return magnitude, phaseRad
}

var _ dsp.Effect = (*EQ)(nil)

// --- dsp.Effect parameter-vector adapter -----------------------------

// paramsPerBand mirrors spec.md §6's per-band layout: 0 frequency, 1 gain,
// 2 Q.
const paramsPerBand = 3

func (e *EQ) Params() []dsp.ParamSpec {
	specs := make([]dsp.ParamSpec, 0, numBands*paramsPerBand)
	for i := 0; i < numBands; i++ {
		base := i * paramsPerBand
		specs = append(specs,
			dsp.ParamSpec{Index: base + 0, Name: "frequency", Unit: "Hz", Min: 20, Max: 20000, Default: DefaultBandConfigs()[i].Freq},
			dsp.ParamSpec{Index: base + 1, Name: "gain", Unit: "dB", Min: -24, Max: 24, Default: 0},
			dsp.ParamSpec{Index: base + 2, Name: "q", Unit: "", Min: 0.1, Max: 10, Default: DefaultBandConfigs()[i].Q},
		)
	}
	return specs
}

func (e *EQ) SetParam(index int, value float64) {
	band, field := index/paramsPerBand, index%paramsPerBand
	if band < 0 || band >= numBands {
		return
	}
	spec := e.Params()[index]
	value = spec.Clamp(value)
	cfg := e.bands[band].cfg.Load()
	switch field {
	case 0:
		cfg.Freq = value
	case 1:
		cfg.GainDB = value
	case 2:
		cfg.Q = value
	}
	e.bands[band].cfg.Store(cfg)
}

func (e *EQ) Param(index int) float64 {
	band, field := index/paramsPerBand, index%paramsPerBand
	if band < 0 || band >= numBands {
		return 0
	}
	cfg := e.bands[band].cfg.Load()
	switch field {
	case 0:
		return cfg.Freq
	case 1:
		return cfg.GainDB
	case 2:
		return cfg.Q
	}
	return 0
}

func (e *EQ) Bypass() bool          { return e.bypass.Get() }
func (e *EQ) SetBypass(bypass bool) { e.bypass.Set(bypass) }
func (e *EQ) WetDry() float64       { return e.wetDry.Get() }
func (e *EQ) SetWetDry(mix float64) { e.wetDry.Set(mix) }
