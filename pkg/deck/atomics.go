// Package deck implements the per-deck transport state machine: play
// state, position, memory cue, hot cues, loop, beat-jump, slicer, and the
// lock-free DeckAtomics snapshot UI threads poll at ~60 Hz.
package deck

import "sync/atomic"

// PlayState is a deck's transport state.
type PlayState uint8

const (
	Stopped PlayState = iota
	Playing
	Cueing
)

// Atomics is a bundle of lock-free words the audio thread writes at the
// end of every callback and any UI thread may read without synchronization
// stronger than relaxed loads. LoadedEpoch increments on every
// apply_prepared_track so a UI thread can detect "something changed"
// without polling every field.
type Atomics struct {
	position    atomic.Uint64
	playState   atomic.Uint32
	loopActive  atomic.Bool
	loopStart   atomic.Uint64
	loopEnd     atomic.Uint64
	loadedEpoch atomic.Uint32
}

// Position returns the current sample position.
func (a *Atomics) Position() uint64 { return a.position.Load() }

// PlayState returns the current play state.
func (a *Atomics) PlayState() PlayState { return PlayState(a.playState.Load()) }

// LoopActive reports whether a loop is currently engaged.
func (a *Atomics) LoopActive() bool { return a.loopActive.Load() }

// LoopBounds returns the current loop start/end sample indices.
func (a *Atomics) LoopBounds() (start, end uint64) {
	return a.loopStart.Load(), a.loopEnd.Load()
}

// LoadedEpoch returns the current load-generation counter.
func (a *Atomics) LoadedEpoch() uint32 { return a.loadedEpoch.Load() }

// publish is called once per callback by the owning Deck, on the audio
// thread, after rendering.
func (a *Atomics) publish(position uint64, state PlayState, loopActive bool, loopStart, loopEnd uint64) {
	a.position.Store(position)
	a.playState.Store(uint32(state))
	a.loopActive.Store(loopActive)
	a.loopStart.Store(loopStart)
	a.loopEnd.Store(loopEnd)
}

func (a *Atomics) bumpEpoch() {
	a.loadedEpoch.Add(1)
}
