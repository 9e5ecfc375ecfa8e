package main

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// maxQueuedSamples bounds OtoSink's internal queue to roughly half a
// second of stereo audio at a typical 48kHz rate. If oto's Read goroutine
// falls behind the engine's render cadence for any reason, PullFrames
// drops the oldest queued samples rather than growing the queue without
// bound — a slow consumer loses audio, it doesn't leak memory.
const maxQueuedSamples = 48000 * 2 / 2

// OtoSink is an engine.RenderSink backed by an oto/v3 speaker player. The
// engine's render loop calls PullFrames once per cycle with a block of
// already-processed interleaved stereo samples; oto's own playback thread
// calls Read independently, on its own schedule, to drain whatever has
// accumulated. A mutex-guarded, capacity-bounded FIFO decouples the two:
// PullFrames only ever appends (dropping the oldest overflow), Read only
// ever drains from the front.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu    sync.Mutex
	queue []float32
}

// NewOtoSink opens a stereo float32 oto context at sampleRate and starts
// playback immediately; PullFrames begins feeding it as soon as the engine
// calls it.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4096,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{ctx: ctx}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// PullFrames appends the given interleaved samples to the playback queue.
// It never blocks on audio hardware: the oto player drains the queue on
// its own goroutine via Read. If oto's Read goroutine is falling behind,
// the queue is trimmed to maxQueuedSamples by dropping the oldest samples
// first, so a slow consumer causes audible dropouts instead of unbounded
// memory growth.
func (s *OtoSink) PullFrames(interleaved []float32) (pulled int) {
	s.mu.Lock()
	s.queue = append(s.queue, interleaved...)
	if over := len(s.queue) - maxQueuedSamples; over > 0 {
		s.queue = s.queue[over:]
	}
	s.mu.Unlock()
	return len(interleaved)
}

// Read implements io.Reader for oto.Player: it drains up to len(p)/4
// float32 samples from the queue, zero-filling any shortfall so playback
// never stalls on an underrun.
func (s *OtoSink) Read(p []byte) (n int, err error) {
	want := len(p) / 4

	s.mu.Lock()
	have := len(s.queue)
	if have > want {
		have = want
	}
	var samples []float32
	if have > 0 {
		samples = make([]float32, have)
		copy(samples, s.queue[:have])
		s.queue = s.queue[have:]
	}
	s.mu.Unlock()

	if have > 0 {
		copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:have*4])
	}
	for i := have * 4; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

// Close stops playback and releases the underlying player.
func (s *OtoSink) Close() {
	if s.player != nil {
		_ = s.player.Close()
	}
}
