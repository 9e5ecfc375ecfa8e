package dsp

import "math"

// tanhLUT/tanhLUTMin/tanhLUTMax mirror the lookup-table approximation the
// engine's own synthesis core uses for its waveshaping primitives: a fixed
// table over a clamped input range with linear interpolation between
// entries, avoiding a library math.Tanh call in the saturation hot path.
const (
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

var (
	tanhLUT      [tanhLUTSize]float32
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

func init() {
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// fastTanh returns tanh(x) via the lookup table above, linearly
// interpolated, clamped outside [-4, 4] where tanh has already saturated.
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1
	}
	if x >= tanhLUTMax {
		return 1
	}
	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// SaturationMode selects one of the four waveshaping characters.
type SaturationMode int

const (
	SaturationClean SaturationMode = iota
	SaturationTube
	SaturationTape
	SaturationTransistor
)

// Saturator applies one of four 2×-oversampled waveshaping modes: clean
// (tanh soft clip around a 0.9 knee), tube (asymmetric rational soft-clip
// emphasizing even harmonics), tape (cubic soft clip with a post-lowpass),
// transistor (tanh hard knee with extra odd harmonics). A fast-path bypass
// is taken when mode is clean, drive is below 0.1, and the input sits below
// the soft-clip threshold.
type Saturator struct {
	Mode  SaturationMode
	Drive float64 // 0..1

	prevUp  float32 // upsample interpolation state
	tapeLPF float32 // tape mode's post-shape one-pole state
}

const saturationKnee = float32(0.9)

func (s *Saturator) shape(x float32) float32 {
	drive := float32(s.Drive)
	switch s.Mode {
	case SaturationTube:
		k := 0.3 + drive*0.7
		y := x - k*x*x*sign(x)
		return fastTanh(y * (1 + drive))
	case SaturationTape:
		d := x * (1 + drive)
		y := d - d*d*d/3
		s.tapeLPF += 0.35 * (y - s.tapeLPF)
		return s.tapeLPF
	case SaturationTransistor:
		d := x * (1 + drive*2)
		pre := d - 0.15*d*d*d
		return fastTanh(pre * 1.5)
	default: // SaturationClean
		if x > saturationKnee {
			return saturationKnee + (1-saturationKnee)*fastTanh((x-saturationKnee)*4)
		}
		if x < -saturationKnee {
			return -saturationKnee + (1-saturationKnee)*fastTanh((x+saturationKnee)*4)
		}
		return fastTanh(x * (1 + drive))
	}
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

// Process runs one sample through the 2×-oversampled saturation stage:
// linear-interpolation upsample, waveshape at 2× rate, 3-tap
// [0.25, 0.5, 0.25] downsample. No output gain compensation and no wet/dry
// mix of its own are applied; the chain's blend mixes the EQ effect as a
// whole, not this stage.
func (s *Saturator) Process(x float32) float32 {
	if s.Mode == SaturationClean && s.Drive < 0.1 && x > -saturationKnee && x < saturationKnee {
		return x
	}

	// Upsample by linear interpolation between this sample and the last.
	mid := (s.prevUp + x) / 2
	s.prevUp = x

	y0 := s.shape(mid)
	y1 := s.shape(x)

	// 3-tap symmetric downsample filter combining the two oversampled
	// points back to one output sample.
	return 0.25*y0 + 0.5*y1 + 0.25*y0
}

// Reset clears the oversampling and tape-lowpass state.
func (s *Saturator) Reset() {
	s.prevUp = 0
	s.tapeLPF = 0
}
