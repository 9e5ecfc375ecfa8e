package main

import "math"

// ToneSource is a synthetic engine.CaptureSource producing a fixed-frequency
// sine tone in both channels, standing in for a real capture device so the
// demo has something to push through the chain without needing a
// microphone.
type ToneSource struct {
	sampleRate float64
	freq       float64
	amp        float64
	phase      float64
}

// NewToneSource builds a tone generator at freq Hz and amp amplitude
// (0..1), ticking at sampleRate.
func NewToneSource(sampleRate, freq, amp float64) *ToneSource {
	return &ToneSource{sampleRate: sampleRate, freq: freq, amp: amp}
}

// PushFrames fills interleaved (stereo, L/R/L/R/...) with the tone, advancing
// the oscillator's phase, and reports the number of float32 slots written.
func (t *ToneSource) PushFrames(interleaved []float32) (pushed int) {
	step := 2 * math.Pi * t.freq / t.sampleRate
	frames := len(interleaved) / 2
	for i := 0; i < frames; i++ {
		x := float32(t.amp * math.Sin(t.phase))
		interleaved[i*2] = x
		interleaved[i*2+1] = x
		t.phase += step
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	return frames * 2
}
