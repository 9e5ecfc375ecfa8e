package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopback-audio/fxcore/internal/config"
	"github.com/loopback-audio/fxcore/internal/dsp"
)

// toneSource is a synthetic CaptureSource producing a constant 0.2 level in
// both channels (its freq and phase fields are unused), standing in for a
// real capture device in tests.
type toneSource struct {
	sampleRate float64
	freq       float64
	phase      float64
}

func (t *toneSource) PushFrames(interleaved []float32) (pushed int) {
	frames := len(interleaved) / 2
	for i := 0; i < frames; i++ {
		x := float32(0.2)
		interleaved[i*2] = x
		interleaved[i*2+1] = x
	}
	return frames * 2
}

// captureSink is a RenderSink that just counts pulled samples, standing in
// for a real output device in tests.
type captureSink struct {
	pulled atomic.Uint64
}

func (s *captureSink) PullFrames(interleaved []float32) (pulled int) {
	s.pulled.Add(uint64(len(interleaved)))
	return len(interleaved)
}

func testConfig() config.EngineConfig {
	cfg := config.Default()
	cfg.DefaultChain = []dsp.Kind{dsp.KindEQ, dsp.KindCompressor, dsp.KindLimiter, dsp.KindGain}
	return cfg
}

func TestEngine_StartRun_Stop_TransitionsState(t *testing.T) {
	e := New(testConfig(), nil)
	assert.Equal(t, Stopped, e.State())

	source := &toneSource{sampleRate: 48000, freq: 440}
	sink := &captureSink{}

	require.NoError(t, e.Start(context.Background(), source, sink))
	assert.Equal(t, Running, e.State())

	time.Sleep(50 * time.Millisecond)
	assert.Greater(t, sink.pulled.Load(), uint64(0))

	e.Stop()
	assert.Equal(t, Stopped, e.State())
}

func TestEngine_Start_RejectsNilCollaborators(t *testing.T) {
	e := New(testConfig(), nil)
	err := e.Start(context.Background(), nil, &captureSink{})
	assert.Error(t, err)
	assert.Equal(t, Stopped, e.State())
}

func TestEngine_Start_TwiceWithoutStop_Errors(t *testing.T) {
	e := New(testConfig(), nil)
	source := &toneSource{sampleRate: 48000, freq: 440}
	sink := &captureSink{}

	require.NoError(t, e.Start(context.Background(), source, sink))
	defer e.Stop()

	err := e.Start(context.Background(), source, sink)
	assert.Error(t, err)
}

func TestEngine_ControllerSurface_SetAndReadParam(t *testing.T) {
	e := New(testConfig(), nil)
	err := e.SetParam(dsp.KindCompressor, 0, -24)
	require.NoError(t, err)
	v, ok := e.Param(dsp.KindCompressor, 0)
	assert.True(t, ok)
	assert.Equal(t, -24.0, v)
}

func TestEngine_ControllerSurface_UnknownKind_ReturnsError(t *testing.T) {
	e := New(testConfig(), nil)
	err := e.SetParam(dsp.KindReverb, 0, 0.5)
	assert.Error(t, err)
}

func TestEngine_Bypass_RoundTrips(t *testing.T) {
	e := New(testConfig(), nil)
	e.SetBypass(dsp.KindLimiter, true)
	assert.True(t, e.Bypass(dsp.KindLimiter))
	e.SetBypass(dsp.KindLimiter, false)
	assert.False(t, e.Bypass(dsp.KindLimiter))
}

func TestEngine_Stop_WithoutStart_IsNoOp(t *testing.T) {
	e := New(testConfig(), nil)
	assert.NotPanics(t, func() { e.Stop() })
	assert.Equal(t, Stopped, e.State())
}

func TestEngine_Restart_ReturnsToRunning(t *testing.T) {
	e := New(testConfig(), nil)
	source := &toneSource{sampleRate: 48000, freq: 440}
	sink := &captureSink{}

	require.NoError(t, e.Start(context.Background(), source, sink))
	require.NoError(t, e.Restart(context.Background(), source, sink))
	assert.Equal(t, Running, e.State())
	e.Stop()
}
