package engine

// CaptureSource is the engine's capture-side collaborator: on each capture
// cycle the engine asks it to push up to len(interleaved) stereo samples
// (L,R interleaved) into the buffer, standing in for whatever the host
// audio subsystem's capture callback would otherwise hand the engine
// directly. The engine never opens or enumerates the underlying device.
type CaptureSource interface {
	PushFrames(interleaved []float32) (pushed int)
}

// RenderSink is the engine's render-side collaborator: the engine hands it
// a buffer of already-processed interleaved stereo samples, and the sink
// pulls (consumes) as many as it can accept — writing to a physical device,
// a file, or (in the demo harness) an oto/v3 player's internal queue.
type RenderSink interface {
	PullFrames(interleaved []float32) (pulled int)
}
