// Package dsp implements the effect chain, metering, and shared building
// blocks (biquads, envelope followers, delay lines, saturation) used by the
// concrete effects in the eq, dynamics, timebased, spatial and enhance
// sub-packages.
package dsp

// Stereo is a pair of interleaved-origin stereo samples, unit-normalized
// around a nominal peak of 1.0. It is the canonical transport unit between
// the ring buffer, the chain, and every effect: left and right are always
// carried together so no effect can observe a torn stereo pair.
type Stereo struct {
	L, R float32
}

// FlushDenormal zeroes x if its magnitude has decayed into subnormal range,
// where IEEE754 arithmetic runs an order of magnitude slower on some CPUs.
// Hot inner loops (the reverb's comb and all-pass filters, the enhancers'
// harmonic shaper, the output-gain smoother) call this on every state
// update.
func FlushDenormal(x float32) float32 {
	if x < 1e-15 && x > -1e-15 {
		return 0
	}
	return x
}

// FlushDenormal64 is the float64 counterpart, used by BiquadState, whose
// delay samples stay in double precision.
func FlushDenormal64(x float64) float64 {
	if x < 1e-15 && x > -1e-15 {
		return 0
	}
	return x
}
