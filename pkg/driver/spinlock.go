package driver

import (
	"runtime"
	"sync/atomic"
)

// Spinlock is a very short critical section two device callbacks can share
// when both drive the same Engine (master output device plus a separate
// cue/headphone device). It must never be held across anything that can
// block — only around the drain-commands-then-process call — so a
// priority-inverted hold never happens: either side's hold is bounded by
// one callback's worth of engine work.
type Spinlock struct {
	held atomic.Bool
}

// Lock spins until the lock is acquired. Callers on a real-time thread
// must only ever hold this for the duration of one Process call.
func (s *Spinlock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// Unlock releases the lock.
func (s *Spinlock) Unlock() {
	s.held.Store(false)
}
