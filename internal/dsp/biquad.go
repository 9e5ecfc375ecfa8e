package dsp

import "math"

// BiquadType selects which RBJ cookbook formula Coefficients derives.
type BiquadType int

const (
	BiquadLowShelf BiquadType = iota
	BiquadHighShelf
	BiquadPeaking
	BiquadLowPass
	BiquadHighPass
	BiquadAllPass
)

// BiquadCoefficients holds the five normalized coefficients of a biquad
// (run by BiquadState's direct form I difference equation), plus the parameters they were derived from so
// recomputation can be skipped when nothing has changed.
type BiquadCoefficients struct {
	B0, B1, B2, A1, A2 float64

	kind       BiquadType
	sampleRate float64
	freq       float64
	q          float64
	gainDB     float64
	valid      bool
}

// Update recomputes the coefficients if any input differs from the last
// call, and is a no-op otherwise (spec: "derived lazily when any input
// parameter changes; cached"). Returns true if recomputation happened.
func (c *BiquadCoefficients) Update(kind BiquadType, sampleRate, freq, q, gainDB float64) bool {
	if c.valid && kind == c.kind && sampleRate == c.sampleRate && freq == c.freq && q == c.q && gainDB == c.gainDB {
		return false
	}
	c.kind, c.sampleRate, c.freq, c.q, c.gainDB, c.valid = kind, sampleRate, freq, q, gainDB, true

	if freq <= 0 {
		freq = 1
	}
	if freq >= sampleRate/2 {
		freq = sampleRate/2 - 1
	}
	if q <= 0 {
		q = 0.01
	}

	w0 := 2 * math.Pi * freq / sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2 * q)
	A := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64

	switch kind {
	case BiquadPeaking:
		b0 = 1 + alpha*A
		b1 = -2 * cosW0
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosW0
		a2 = 1 - alpha/A

	case BiquadLowShelf:
		sqrtA := math.Sqrt(A)
		twoSqrtAalpha := 2 * sqrtA * alpha
		b0 = A * ((A + 1) - (A-1)*cosW0 + twoSqrtAalpha)
		b1 = 2 * A * ((A - 1) - (A+1)*cosW0)
		b2 = A * ((A + 1) - (A-1)*cosW0 - twoSqrtAalpha)
		a0 = (A + 1) + (A-1)*cosW0 + twoSqrtAalpha
		a1 = -2 * ((A - 1) + (A+1)*cosW0)
		a2 = (A + 1) + (A-1)*cosW0 - twoSqrtAalpha

	case BiquadHighShelf:
		sqrtA := math.Sqrt(A)
		twoSqrtAalpha := 2 * sqrtA * alpha
		b0 = A * ((A + 1) + (A-1)*cosW0 + twoSqrtAalpha)
		b1 = -2 * A * ((A - 1) + (A+1)*cosW0)
		b2 = A * ((A + 1) + (A-1)*cosW0 - twoSqrtAalpha)
		a0 = (A + 1) - (A-1)*cosW0 + twoSqrtAalpha
		a1 = 2 * ((A - 1) - (A+1)*cosW0)
		a2 = (A + 1) - (A-1)*cosW0 - twoSqrtAalpha

	case BiquadLowPass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case BiquadHighPass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha

	case BiquadAllPass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	}

	c.B0, c.B1, c.B2 = b0/a0, b1/a0, b2/a0
	c.A1, c.A2 = a1/a0, a2/a0
	return true
}

// BiquadState holds one channel's direct form I delay samples (two input,
// two output); the output samples are flushed to zero below 1e-15 on every
// sample to avoid denormal stalls.
type BiquadState struct {
	x1, x2 float64
	y1, y2 float64
}

// Process runs the direct form I difference equation
// y = b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2.
func (s *BiquadState) Process(c *BiquadCoefficients, x float64) float64 {
	y := c.B0*x + c.B1*s.x1 + c.B2*s.x2 - c.A1*s.y1 - c.A2*s.y2
	s.x2 = s.x1
	s.x1 = x
	s.y2 = FlushDenormal64(s.y1)
	s.y1 = FlushDenormal64(y)
	return y
}

// Reset clears the delay samples.
func (s *BiquadState) Reset() {
	*s = BiquadState{}
}
