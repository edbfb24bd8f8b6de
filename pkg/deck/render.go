package deck

import (
	"math"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/latency"
)

// Render implements the rendering contract: determine n_in from the
// requested n_out and the cached stretch ratio, mix every stem's source at
// the current position through its effect chain and the latency
// compensator, sum into rawOut, then advance position (applying loop wrap)
// and publish the deck's atomics. rawOut's final length is n_in — the
// engine feeds it to the time-stretcher to produce exactly n_out frames.
func (d *Deck) Render(rawOut *audio.StereoBuffer, nOut int, comp *latency.Compensator) {
	nIn := int(math.Round(float64(nOut) * d.stretchRatio))
	if nIn > rawOut.Cap() {
		nIn = rawOut.Cap()
	}
	if nIn < 0 {
		nIn = 0
	}
	rawOut.SetLen(nIn)

	if d.track == nil || d.playState == Stopped {
		rawOut.Silence()
		return
	}

	solo := d.anySoloed()
	for _, stem := range audio.AllStems {
		scratch := d.scratch[stem]
		scratch.SetLen(nIn)
		d.readStemAt(stem, d.position, scratch)

		audible := !d.muted[stem] && (!solo || d.soloed[stem])
		if !audible {
			scratch.Silence()
		} else {
			d.chains[stem].Process(scratch)
		}
		comp.Process(d.index, int(stem), scratch)
	}

	rawOut.Silence()
	for _, stem := range audio.AllStems {
		rawOut.AddFrom(d.scratch[stem])
	}

	d.advance(uint64(nIn))
	d.atomics.publish(d.position, d.playState, d.loop.Active, d.loop.Start, d.loop.End)
}

// stemBuffer returns the live source for a stem: the linked-stem slot if
// populated, otherwise the host track's own stem buffer.
func (d *Deck) stemBuffer(stem audio.Stem) *audio.StereoBuffer {
	if linked := d.linkedStems[stem]; linked != nil {
		return linked
	}
	return d.track.Stems.Stems[stem]
}

// readStemAt copies n frames (dst.Len()) from a stem's source buffer
// starting at sample position pos. Positions beyond the source's length
// are zero-filled rather than indexed out of range.
func (d *Deck) readStemAt(stem audio.Stem, pos uint64, dst *audio.StereoBuffer) {
	src := d.stemBuffer(stem)
	n := dst.Len()
	srcLen := src.Len()
	dl, dr := dst.Left(), dst.Right()
	sl, sr := src.Left(), src.Right()
	for i := 0; i < n; i++ {
		idx := pos + uint64(i)
		if idx >= uint64(srcLen) {
			dl[i] = 0
			dr[i] = 0
			continue
		}
		dl[i] = sl[idx]
		dr[i] = sr[idx]
	}
}

// advance moves the authoritative position cursor forward by n frames,
// wrapping within the active loop if engaged, and stopping at end of
// track otherwise.
func (d *Deck) advance(n uint64) {
	newPos := d.position + n
	if d.loop.Active && newPos >= d.loop.End {
		overflow := newPos - d.loop.End
		newPos = d.loop.Start + overflow
	}
	if d.track != nil && newPos >= d.track.DurationSamples {
		newPos = d.track.DurationSamples
		d.playState = Stopped
	}
	d.position = newPos
}
