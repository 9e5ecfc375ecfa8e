// Package fxerr defines the engine's error taxonomy. Recoverable kinds
// never cross the audio-thread boundary as Go errors: they clamp, drop, or
// fade silently, and are only surfaced as read-only counters. Fatal kinds
// are returned from Start (DeviceUnavailable) or end the render loop and
// are logged once (repeated CallbackFault).
package fxerr

import "fmt"

// Kind classifies an error without attaching any call-specific detail.
type Kind int

const (
	// DeviceUnavailable: capture or render device cannot be opened, was
	// lost, or reports an unsupported format. Fatal to Start.
	DeviceUnavailable Kind = iota
	// CallbackFault: the host audio subsystem returned a non-success
	// status. Logged; the engine continues unless faults repeat.
	CallbackFault
	// ParameterOutOfRange: a controller-supplied parameter value fell
	// outside its documented range. Never fatal — the value is clamped.
	ParameterOutOfRange
	// RingBufferUnderrun: the consumer found the ring buffer empty. Not
	// an error condition; handled by the fade-out policy.
	RingBufferUnderrun
	// RingBufferOverrun: the producer saw a full ring buffer. The
	// incoming frame is dropped.
	RingBufferOverrun
)

func (k Kind) String() string {
	switch k {
	case DeviceUnavailable:
		return "DeviceUnavailable"
	case CallbackFault:
		return "CallbackFault"
	case ParameterOutOfRange:
		return "ParameterOutOfRange"
	case RingBufferUnderrun:
		return "RingBufferUnderrun"
	case RingBufferOverrun:
		return "RingBufferOverrun"
	default:
		return "Unknown"
	}
}

// Fatal reports whether errors of this kind should transition the engine to
// Stopped, per the propagation policy.
func (k Kind) Fatal() bool {
	return k == DeviceUnavailable
}

// Error wraps a Kind with the operation it occurred in and an optional
// underlying cause, and satisfies errors.Is/errors.As via Unwrap.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error for op/kind, optionally wrapping cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}
