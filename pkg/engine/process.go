package engine

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

// loadTrackFast installs a prepared track: a pointer move plus atomic
// bump on the audio thread, then a ratio/latency recompute that touches
// no allocator.
func (e *Engine) loadTrackFast(deckIdx int, pt *trackio.PreparedTrack) {
	if pt == nil {
		return
	}
	e.decks[deckIdx].ApplyPreparedTrack(pt)
	e.recomputeDeckStretch(deckIdx)
	e.comp.ClearDeck(deckIdx)
	e.updateDeckLatencies(deckIdx)
	e.pendingReset[deckIdx] = true
}

func (e *Engine) recomputeDeckStretch(deckIdx int) {
	d := e.decks[deckIdx]
	trackBPM := d.TrackBPM()
	if trackBPM <= 0 {
		return
	}
	ratio := e.globalBPM / trackBPM
	d.SetStretchRatio(ratio)
	e.stretchers[deckIdx].SetBPM(trackBPM, e.globalBPM)
}

// updateDeckLatencies recomputes the per-stem total latency (effect chain
// plus stretcher) for one deck and reports it to the compensator.
func (e *Engine) updateDeckLatencies(deckIdx int) {
	d := e.decks[deckIdx]
	stretchLatency := e.stretchers[deckIdx].TotalLatency()
	for _, stem := range audio.AllStems {
		effectLatency := d.Chain(stem).TotalLatency()
		e.comp.SetStemLatency(deckIdx, int(stem), effectLatency+stretchLatency)
	}
}

// OnEffectChainChanged recomputes a deck's latencies after a knob/bypass
// edit changes one stem's chain latency.
func (e *Engine) OnEffectChainChanged(deckIdx int) {
	e.updateDeckLatencies(deckIdx)
}

// Process runs one audio callback: render each deck's raw block, time
// stretch it to the requested output length (or silence-copy through if no
// track is loaded), then mix into master and cue. masterOut/cueOut must
// already have their length set to the requested block size.
func (e *Engine) Process(masterOut, cueOut *audio.StereoBuffer) {
	n := masterOut.Len()
	for i := range e.deckOut {
		e.deckOut[i].SetLen(n)
	}

	for i, d := range e.decks {
		d.Render(e.stretchIn[i], n, e.comp)
		if e.pendingReset[i] {
			d.ResetChains()
			e.pendingReset[i] = false
		}
		if d.HasTrack() {
			e.stretchers[i].Process(e.stretchIn[i], e.deckOut[i])
		} else {
			e.deckOut[i].CopyFrom(e.stretchIn[i])
		}
	}

	e.mix.Process(e.deckOut, masterOut, cueOut)
}

// Reset flushes every deck's effect chains, every stretcher, the latency
// compensator, and the mixer.
func (e *Engine) Reset() {
	for i, d := range e.decks {
		for _, stem := range audio.AllStems {
			d.Chain(stem).Reset()
		}
		e.stretchers[i].Reset()
	}
	e.comp.ClearAll()
	e.mix.Reset()
}
