// Package fft implements the spectrum analyzer: a side-consumer fed by its
// own SPSC ring buffer off the chain's output tap, never touching the audio
// thread's real-time path beyond a single non-blocking push per frame.
package fft

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/ring"
)

const (
	// WindowSize is the forward DFT size.
	WindowSize = 2048
	// BinCount is the number of magnitude bins returned (first N/2).
	BinCount = 1024
	// dBFloor is the magnitude floor applied before EMA smoothing.
	dBFloor = -80.0
	// emaCoef is the smoothing coefficient applied bin-by-bin across calls.
	emaCoef = 0.7
)

// Analyzer consumes monoized output-tap samples through an SPSC ring
// buffer, and on demand (from the UI thread, at ~60Hz) computes a windowed
// DFT, converts to dB, and smooths with an exponential moving average.
//
// Push is safe to call from the audio thread: it only writes to the ring
// buffer. Snapshot is intended for the UI thread only.
type Analyzer struct {
	buf    *ring.MonoBuffer
	window [WindowSize]float64
	hann   [WindowSize]float64

	mu       sync.Mutex
	smoothed [BinCount]float64
	warm     bool
}

// NewAnalyzer returns an Analyzer with its own ring buffer sized to hold at
// least one full window.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{buf: ring.NewMonoBuffer(WindowSize * 2)}
	for i := range a.hann {
		a.hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(WindowSize-1))
	}
	return a
}

// Push monoizes a stereo frame (m = (l+r)/2) and pushes it to the
// analyzer's ring buffer. Called once per render-callback frame; never
// blocks, never allocates.
func (a *Analyzer) Push(frame dsp.Stereo) {
	m := (frame.L + frame.R) * 0.5
	a.buf.Push(m)
}

// Snapshot reads the most recent WindowSize samples (without draining older
// ones needed by a future call — MonoBuffer supports independent peek), applies
// a Hann window, computes a forward DFT, and returns BinCount
// exponentially-smoothed magnitudes in dB. Intended for the UI thread only.
func (a *Analyzer) Snapshot() []float64 {
	samples := a.buf.PeekLatest(WindowSize)
	if len(samples) < WindowSize {
		return nil
	}

	for i, s := range samples {
		a.window[i] = float64(s) * a.hann[i]
	}

	spectrum := dft(a.window[:])

	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, BinCount)
	for i := 0; i < BinCount; i++ {
		mag := cmplx.Abs(spectrum[i]) / float64(WindowSize)
		db := dBFloor
		if mag > 0 {
			db = 20 * math.Log10(mag)
		}
		if db < dBFloor {
			db = dBFloor
		}
		if !a.warm {
			a.smoothed[i] = db
		} else {
			a.smoothed[i] = emaCoef*a.smoothed[i] + (1-emaCoef)*db
		}
		out[i] = a.smoothed[i]
	}
	a.warm = true
	return out
}

// dft computes a direct (O(n^2)) forward discrete Fourier transform. The
// window size is fixed and small enough (2048) that an FFT isn't needed for
// a ~60Hz UI-thread consumer; a direct sum keeps the code simple to verify.
func dft(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for t := 0; t < n; t++ {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += complex(x[t], 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

// Reset clears the analyzer's ring buffer and smoothing state.
func (a *Analyzer) Reset() {
	a.buf.Clear()
	a.mu.Lock()
	a.warm = false
	a.mu.Unlock()
}
