// Package latency implements the cross-deck, cross-stem latency
// compensator: a per-(deck,stem) delay line sized to the largest total
// latency ever observed, so every stem reaches the mixer in phase
// regardless of how much processing its own chain added.
//
// Delay line shape grounded on the teacher's pkg/dsp/delay.Line, widened
// to a fixed pre-allocated ring sized to audio.MaxLatencySamples so no
// reallocation is ever needed once the engine starts.
package latency

import "github.com/nullstage/quaddeck/pkg/audio"

// Compensator holds one delay ring per (deck, stem).
type Compensator struct {
	rings         [audio.NumDecks][audio.NumStems]*ring
	stemLatency   [audio.NumDecks][audio.NumStems]int
	globalLatency int
}

// NewCompensator pre-allocates every delay ring to the maximum latency
// ceiling. Call once at engine construction.
func NewCompensator() *Compensator {
	c := &Compensator{}
	for d := 0; d < audio.NumDecks; d++ {
		for s := 0; s < audio.NumStems; s++ {
			c.rings[d][s] = newRing(audio.MaxLatencySamples)
		}
	}
	return c
}

// SetStemLatency records the current total latency for one (deck, stem)
// and recomputes the global maximum across every deck and stem.
func (c *Compensator) SetStemLatency(deck, stem, latencySamples int) {
	c.stemLatency[deck][stem] = latencySamples
	max := 0
	for d := 0; d < audio.NumDecks; d++ {
		for s := 0; s < audio.NumStems; s++ {
			if c.stemLatency[d][s] > max {
				max = c.stemLatency[d][s]
			}
		}
	}
	c.globalLatency = max
}

// GlobalLatency returns the current maximum per-stem latency across every
// deck, in samples.
func (c *Compensator) GlobalLatency() int { return c.globalLatency }

// Process delays one (deck, stem) buffer in place by
// globalLatency - stemLatency(deck, stem) samples.
func (c *Compensator) Process(deck, stem int, buf *audio.StereoBuffer) {
	delaySamples := c.globalLatency - c.stemLatency[deck][stem]
	if delaySamples < 0 {
		delaySamples = 0
	}
	c.rings[deck][stem].processInPlace(buf, delaySamples)
}

// ClearDeck zeroes every stem's delay line for one deck, e.g. on track
// load or unload.
func (c *Compensator) ClearDeck(deck int) {
	for s := 0; s < audio.NumStems; s++ {
		c.rings[deck][s].reset()
		c.stemLatency[deck][s] = 0
	}
}

// ClearAll zeroes every delay line and resets the cached global latency
// to zero.
func (c *Compensator) ClearAll() {
	for d := 0; d < audio.NumDecks; d++ {
		c.ClearDeck(d)
	}
	c.globalLatency = 0
}

// ring is a simple fixed-capacity circular delay buffer, one per
// (deck, stem), sized once and never reallocated.
type ring struct {
	left, right []float32
	writePos    int
}

func newRing(capacity int) *ring {
	return &ring{
		left:  make([]float32, capacity),
		right: make([]float32, capacity),
	}
}

func (r *ring) reset() {
	for i := range r.left {
		r.left[i] = 0
		r.right[i] = 0
	}
	r.writePos = 0
}

// processInPlace writes buf into the ring and reads back delaySamples
// behind the write cursor, overwriting buf with the delayed signal.
func (r *ring) processInPlace(buf *audio.StereoBuffer, delaySamples int) {
	n := buf.Len()
	size := len(r.left)
	l, rr := buf.Left(), buf.Right()
	for i := 0; i < n; i++ {
		r.left[r.writePos] = l[i]
		r.right[r.writePos] = rr[i]

		readPos := r.writePos - delaySamples
		for readPos < 0 {
			readPos += size
		}
		l[i] = r.left[readPos]
		rr[i] = r.right[readPos]

		r.writePos++
		if r.writePos >= size {
			r.writePos = 0
		}
	}
}
