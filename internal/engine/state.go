// Package engine owns the audio engine's lifecycle state machine, resolves
// the two opaque capture/render device handles into running callback
// goroutines, and is the single place allowed to swap the DSP chain's
// effect-list snapshot.
package engine

import "sync/atomic"

// State is one of the engine's four lifecycle states.
type State int32

const (
	Stopped State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Starting:
		return "Starting"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// stateBox is an atomically-read/written State, observed by the controller
// thread; Starting and Stopping are transient and never observed by a
// caller blocked on Start/Stop (they only ever see the terminal result).
type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) Load() State   { return State(b.v.Load()) }
func (b *stateBox) Store(s State) { b.v.Store(int32(s)) }
func (b *stateBox) CompareAndSwap(from, to State) bool {
	return b.v.CompareAndSwap(int32(from), int32(to))
}
