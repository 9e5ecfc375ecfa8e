package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/loopback-audio/fxcore/internal/config"
	"github.com/loopback-audio/fxcore/internal/dsp"
	"github.com/loopback-audio/fxcore/internal/dsp/dynamics"
	"github.com/loopback-audio/fxcore/internal/dsp/enhance"
	"github.com/loopback-audio/fxcore/internal/dsp/eq"
	"github.com/loopback-audio/fxcore/internal/dsp/spatial"
	"github.com/loopback-audio/fxcore/internal/dsp/timebased"
	"github.com/loopback-audio/fxcore/internal/fft"
	"github.com/loopback-audio/fxcore/internal/fxerr"
	"github.com/loopback-audio/fxcore/internal/ring"
)

// maxConsecutiveCallbackFaults is the threshold past which the engine
// transitions itself to Stopped rather than continuing to log faults, per
// spec.md §7's "repeated faults cause a transition to Stopped".
const maxConsecutiveCallbackFaults = 50

// framesPerCycle is the block size the capture/render goroutines operate
// on; chosen small enough to keep ring-buffer latency low.
const framesPerCycle = 256

// Engine owns the real-time audio path: the ring buffer bridging capture
// and render, the DSP chain, the spectrum analyzer tap, and the lifecycle
// state machine coordinating them.
type Engine struct {
	cfg    config.EngineConfig
	log    *log.Logger
	state  stateBox

	chain    *dsp.Chain
	effects  map[dsp.Kind]dsp.Effect
	eqEffect *eq.EQ

	buf      *ring.Buffer
	fade     ring.FadeState
	analyzer *fft.Analyzer

	mu     sync.Mutex // guards Start/Stop transitions only
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New builds an Engine from cfg, constructing the default effect chain and
// allocating its ring buffer and analyzer. No goroutines are started and no
// device is touched until Start.
func New(cfg config.EngineConfig, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	e := &Engine{
		cfg:      cfg,
		log:      logger.With("component", "engine"),
		buf:      ring.NewBuffer(cfg.RingCapacityFrames),
		fade:     ring.NewFadeState(cfg.FadeSamples),
		analyzer: fft.NewAnalyzer(),
	}
	e.chain, e.effects, e.eqEffect = buildChain(cfg.DefaultChain, cfg.SampleRate)
	return e
}

// buildChain constructs one effect per requested kind (in order) at
// sampleRate, wires them into a dsp.Chain, and returns a by-kind lookup for
// the controller surface.
func buildChain(kinds []dsp.Kind, sampleRate float64) (*dsp.Chain, map[dsp.Kind]dsp.Effect, *eq.EQ) {
	chain := dsp.NewChain()
	chain.SetSampleRate(sampleRate)
	effects := make(map[dsp.Kind]dsp.Effect, len(kinds))
	var eqEffect *eq.EQ

	for _, kind := range kinds {
		var e dsp.Effect
		switch kind {
		case dsp.KindEQ:
			inst := eq.New(sampleRate)
			eqEffect = inst
			e = inst
		case dsp.KindBass:
			e = enhance.NewBassEnhancer(sampleRate)
		case dsp.KindVocal:
			e = enhance.NewVocalClarity(sampleRate)
		case dsp.KindCompressor:
			e = dynamics.NewCompressor(sampleRate)
		case dsp.KindLimiter:
			e = dynamics.NewLimiter(sampleRate)
		case dsp.KindReverb:
			e = timebased.NewReverb(sampleRate)
		case dsp.KindDelay:
			e = timebased.NewDelay(sampleRate)
		case dsp.KindWidener:
			e = spatial.NewWidener()
		case dsp.KindGain:
			e = enhance.NewOutputGain(sampleRate)
		default:
			continue
		}
		chain.Add(e)
		effects[kind] = e
	}
	return chain, effects, eqEffect
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State { return e.state.Load() }

// Start transitions Stopped→Starting→Running: it validates the two
// collaborators, resets the ring buffer and chain, and launches the
// capture and render goroutines under an errgroup so a failure in either
// tears down both. On any failure it rolls back to Stopped and returns the
// error; on success it returns immediately with the engine Running in the
// background.
func (e *Engine) Start(ctx context.Context, capture CaptureSource, render RenderSink) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CompareAndSwap(Stopped, Starting) {
		return fxerr.New("engine.Start", fxerr.DeviceUnavailable, errors.New("engine is not Stopped"))
	}

	if capture == nil || render == nil {
		e.state.Store(Stopped)
		return fxerr.New("engine.Start", fxerr.DeviceUnavailable, errors.New("capture and render collaborators are required"))
	}

	e.buf.Clear()
	e.chain.Reset()
	e.fade.Reset()
	e.analyzer.Reset()

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)
	e.cancel = cancel
	e.group = group

	group.Go(func() error { return e.captureLoop(runCtx, capture) })
	group.Go(func() error { return e.renderLoop(runCtx, render) })

	e.state.Store(Running)
	e.log.Info("engine started", "sample_rate", e.cfg.SampleRate, "ring_capacity", e.buf.Cap())

	go e.monitor(group)
	return nil
}

// monitor waits for the capture/render goroutines of one run (group) to end
// (by cancellation, fault threshold, or context completion) and rolls the
// engine back to Stopped, logging the cause.
func (e *Engine) monitor(group *errgroup.Group) {
	err := group.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.group != group || e.state.Load() != Running {
		// Already torn down by an explicit Stop call, or replaced by a
		// later Start.
		return
	}
	e.state.Store(Stopping)
	if err != nil {
		e.log.Error("engine stopped due to callback fault", "error", err)
	}
	e.buf.Clear()
	e.chain.Reset()
	e.state.Store(Stopped)
}

// Stop transitions Running→Stopping→Stopped: halts both callbacks, clears
// the ring buffer, and resets every effect's state. Always succeeds.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state.Load() != Running {
		e.mu.Unlock()
		return
	}
	e.state.Store(Stopping)
	cancel := e.cancel
	group := e.group
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if group != nil {
		_ = group.Wait()
	}

	e.mu.Lock()
	e.buf.Clear()
	e.chain.Reset()
	e.state.Store(Stopped)
	e.mu.Unlock()
	e.log.Info("engine stopped")
}

// Restart stops (if running) and starts again with the given collaborators.
func (e *Engine) Restart(ctx context.Context, capture CaptureSource, render RenderSink) error {
	e.Stop()
	return e.Start(ctx, capture, render)
}

// cyclePeriod is how long one framesPerCycle block takes to play out at
// sampleRate — the pacing interval for the capture/render goroutines. A
// demo collaborator like the synthetic tone source or a pre-queued sink
// has nothing else to rate-limit it against, so the loops must pace
// themselves to the device's real cadence rather than spinning as fast as
// the CPU allows.
func cyclePeriod(sampleRate float64) time.Duration {
	return time.Duration(float64(framesPerCycle) / sampleRate * float64(time.Second))
}

func (e *Engine) captureLoop(ctx context.Context, capture CaptureSource) error {
	scratch := make([]float32, framesPerCycle*2)
	ticker := time.NewTicker(cyclePeriod(e.cfg.SampleRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n := capture.PushFrames(scratch)
		frames := n / 2
		for i := 0; i < frames; i++ {
			frame := dsp.Stereo{L: scratch[i*2], R: scratch[i*2+1]}
			e.buf.Push(frame) // overrun is counted internally; frame dropped silently
		}
	}
}

func (e *Engine) renderLoop(ctx context.Context, render RenderSink) error {
	scratch := make([]float32, framesPerCycle*2)
	var consecutiveFaults int
	ticker := time.NewTicker(cyclePeriod(e.cfg.SampleRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if e.buf.TestAndClearReset() {
			e.fade.Reset()
		}

		for i := 0; i < framesPerCycle; i++ {
			frame, ok := e.buf.Pop()
			if !ok {
				frame = e.fade.Next()
			} else {
				e.fade.OnPopped(frame)
			}
			out := e.chain.Process(frame)
			e.analyzer.Push(out)
			scratch[i*2] = out.L
			scratch[i*2+1] = out.R
		}

		pulled := render.PullFrames(scratch)
		if pulled < len(scratch) {
			consecutiveFaults++
			e.log.Warn("render callback fault", "pulled", pulled, "expected", len(scratch))
			if consecutiveFaults >= maxConsecutiveCallbackFaults {
				return fxerr.New("engine.renderLoop", fxerr.CallbackFault, errors.New("too many consecutive short writes"))
			}
		} else {
			consecutiveFaults = 0
		}
	}
}
