// Package reclaim implements a deferred-reclaim graveyard: a lock-free
// SPSC ring the audio thread posts released handles to, drained by a
// non-realtime reaper goroutine so the Go GC never runs on the audio
// thread's time.
//
// The ring shape is grounded on the lock-free CAS ring buffer pattern
// (atomic head/tail indices, power-of-two sizing, wrap via bitmask).
package reclaim

import "sync/atomic"

// Releasable is anything the graveyard can hold a reference to until the
// reaper drains it. Holding the pointer alive here is enough to keep the
// Go GC from collecting it a cycle early; the reaper's job is just to let
// go of the reference off the audio thread.
type Releasable interface{}

// Graveyard is a fixed-capacity SPSC ring of pending releases.
type Graveyard struct {
	slots    []atomic.Pointer[releaseSlot]
	mask     uint32
	writePos atomic.Uint64
	readPos  atomic.Uint64
	dropped  atomic.Uint64
}

type releaseSlot struct {
	value Releasable
}

// New creates a graveyard with capacity rounded up to the next power of
// two. Construct this once at engine startup, off the audio thread.
func New(capacity int) *Graveyard {
	size := nextPowerOf2(uint32(capacity))
	g := &Graveyard{
		slots: make([]atomic.Pointer[releaseSlot], size),
		mask:  size - 1,
	}
	return g
}

// Post enqueues a value for deferred release. Called from the audio
// thread. It is not allocation-free: each call allocates a releaseSlot
// here and boxes v in an interface, which is acceptable because track
// unload is a rare event, not a per-callback one. Returns false, and
// counts a drop, if the ring is full; it never blocks.
func (g *Graveyard) Post(v Releasable) bool {
	write := g.writePos.Load()
	read := g.readPos.Load()
	if write-read >= uint64(len(g.slots)) {
		g.dropped.Add(1)
		return false
	}
	idx := uint32(write) & g.mask
	g.slots[idx].Store(&releaseSlot{value: v})
	g.writePos.Store(write + 1)
	return true
}

// Drain is called by the reaper goroutine. It releases every pending
// value (letting the GC reclaim them) and returns the number drained.
func (g *Graveyard) Drain() int {
	n := 0
	for {
		read := g.readPos.Load()
		write := g.writePos.Load()
		if read == write {
			return n
		}
		idx := uint32(read) & g.mask
		g.slots[idx].Store(nil)
		g.readPos.Store(read + 1)
		n++
	}
}

// Dropped returns the number of posts that found the ring full.
func (g *Graveyard) Dropped() uint64 { return g.dropped.Load() }

func nextPowerOf2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
