package deck

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/effects"
	"github.com/nullstage/quaddeck/pkg/latency"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

// Deck owns one of the four playback slots: transport, cues, loop,
// beat-jump, slicer, four per-stem effect chains, and up to four
// linked-stem slots. Owned exclusively by the engine thread; every
// mutating operation below is invoked only by command dispatch.
type Deck struct {
	index int

	track     *trackio.PreparedTrack
	playState PlayState
	position  uint64

	cue     cueState
	hotCues [8]hotCueSlot
	shift   bool

	loop          LoopState
	beatJumpIndex int

	slicer slicerState

	chains      [audio.NumStems]*effects.Chain
	muted       [audio.NumStems]bool
	soloed      [audio.NumStems]bool
	linkedStems [audio.NumStems]*audio.StereoBuffer

	stretchRatio float64

	atomics Atomics
	scratch [audio.NumStems]*audio.StereoBuffer
}

// New builds a deck with each stem chain populated from the engine's
// effect rack (see buildStemChain) and scratch buffers sized to maxBlock
// input frames (the largest n_in the stretcher could ever request for
// this engine's configured buffer size and BPM range).
func New(index, maxBlock int, sampleRate float64) *Deck {
	d := &Deck{
		index:        index,
		loop:         newLoopState(),
		slicer:       newSlicerState(),
		stretchRatio: 1.0,
	}
	for i := range d.chains {
		d.chains[i] = buildStemChain(sampleRate)
		d.scratch[i] = audio.NewStereoBuffer(maxBlock)
	}
	return d
}

// buildStemChain assembles the per-stem effect rack: the always-on filter
// sweep and delay (both transparent at their default parameters) plus the
// full creative FX palette, inserted bypassed so a stem is untouched until
// a performer maps a knob to one of them or explicitly un-bypasses it.
func buildStemChain(sampleRate float64) *effects.Chain {
	c := effects.NewChain()

	c.Add(effects.NewFilterEffect(sampleRate))

	bypassed := []effects.Effect{
		effects.NewGateEffect(sampleRate),
		effects.NewExpanderEffect(sampleRate),
		effects.NewCompressorEffect(sampleRate),
		effects.NewBitCrusherEffect(sampleRate),
		effects.NewWaveshaperEffect(),
		effects.NewSaturatorEffect(sampleRate),
		effects.NewTapeEffect(sampleRate),
		effects.NewChorusEffect(sampleRate),
		effects.NewFlangerEffect(sampleRate),
		effects.NewPhaserEffect(sampleRate),
		effects.NewTremoloEffect(sampleRate),
		effects.NewRingModEffect(sampleRate),
		effects.NewAutoPanEffect(sampleRate),
		effects.NewVinylNoiseEffect(sampleRate),
		effects.NewReverbEffect(sampleRate),
		effects.NewFDNReverbEffect(sampleRate),
		effects.NewSchroederReverbEffect(sampleRate),
	}
	for _, e := range bypassed {
		e.SetBypass(true)
		c.Add(e)
	}

	c.Add(effects.NewDelayEffect(sampleRate))
	return c
}

// Atomics returns the lock-free observable snapshot for UI threads.
func (d *Deck) Atomics() *Atomics { return &d.atomics }

// Chain returns the effect chain for one stem, for command-driven
// knob/bypass edits.
func (d *Deck) Chain(stem audio.Stem) *effects.Chain { return d.chains[stem] }

// HasTrack reports whether a track is currently loaded.
func (d *Deck) HasTrack() bool { return d.track != nil }

// TrackBPM returns the loaded track's effective BPM, or 0 if no track is
// loaded.
func (d *Deck) TrackBPM() float64 {
	if d.track == nil {
		return 0
	}
	return d.track.Metadata.BPMEffective
}

// StretchRatio returns the cached source_bpm/global_bpm ratio.
func (d *Deck) StretchRatio() float64 { return d.stretchRatio }

// SetStretchRatio caches the ratio the engine computed from global/track
// BPM; used to decide how many input samples to read per callback.
func (d *Deck) SetStretchRatio(r float64) { d.stretchRatio = r }

// ApplyPreparedTrack installs a newly-loaded track. The audio thread
// performs only a pointer move and atomic bump here; any expensive reset
// work is the caller's responsibility to defer to the next callback.
func (d *Deck) ApplyPreparedTrack(pt *trackio.PreparedTrack) {
	if d.track != nil {
		d.track.Release()
	}
	d.track = pt
	d.position = pt.Metadata.FirstBeatSample
	d.playState = Stopped
	d.loop = newLoopState()
	d.cue = cueState{}
	for i := range d.hotCues {
		d.hotCues[i] = hotCueSlot{}
	}
	d.atomics.bumpEpoch()
}

// ResetChains flushes every stem's effect chain state. Deferred by the
// caller to the callback boundary after ApplyPreparedTrack so a load never
// spikes jitter in the same callback it lands on.
func (d *Deck) ResetChains() {
	for _, c := range d.chains {
		c.Reset()
	}
}

// UnloadTrack removes the current track and resets transport, slicer,
// in-play cues, loop, and stretch ratio. Resetting stretchRatio matters even
// with no track loaded: the no-track render path copies a full block of
// frames straight through, and a stale ratio != 1 would size that copy
// wrong against the stretcher's input buffer.
func (d *Deck) UnloadTrack() *trackio.PreparedTrack {
	old := d.track
	d.track = nil
	d.position = 0
	d.playState = Stopped
	d.loop = newLoopState()
	d.slicer = newSlicerState()
	d.cue = cueState{}
	d.stretchRatio = 1.0
	for i := range d.hotCues {
		d.hotCues[i] = hotCueSlot{}
	}
	d.atomics.bumpEpoch()
	return old
}

// Play, Pause, TogglePlay implement the simple state transitions of the
// play-state machine (the PlayState values are declared in atomics.go).
func (d *Deck) Play() {
	if d.playState == Cueing {
		// Latch: play while cueing commits the transient cue as memory.
		d.cue.memoryCue = d.position
	}
	d.playState = Playing
}

func (d *Deck) Pause() {
	if d.playState == Playing {
		d.playState = Stopped
	}
}

func (d *Deck) TogglePlay() {
	if d.playState == Playing {
		d.Pause()
	} else {
		d.Play()
	}
}

// Seek clamps to [0, duration] and preserves play state. Seeking past the
// end clamps to end and transitions to Stopped.
func (d *Deck) Seek(pos uint64) {
	if d.track == nil {
		return
	}
	if pos >= d.track.DurationSamples {
		d.position = d.track.DurationSamples
		d.playState = Stopped
		return
	}
	d.position = pos
}

// CuePress begins transient cueing at the memory cue, remembering whether
// the deck was playing so release can restore the correct state.
func (d *Deck) CuePress() {
	if d.cue.pressed {
		return
	}
	d.cue.pressed = true
	d.cue.prePressPos = d.position
	d.cue.prePressState = d.playState
	d.position = d.cue.memoryCue
	d.playState = Cueing
}

// CueRelease ends the transient cue: if the user started Playing during
// the press it latches into Playing; if the deck was Playing before the
// press it resumes Playing from the cue position; otherwise it returns to
// the pre-press position, Stopped.
func (d *Deck) CueRelease() {
	if !d.cue.pressed {
		return
	}
	d.cue.pressed = false
	if d.playState == Playing {
		return
	}
	if d.cue.prePressState == Playing {
		d.playState = Playing
	} else {
		d.position = d.cue.prePressPos
		d.playState = Stopped
	}
}

// SetCuePoint captures the current position as the new memory cue.
func (d *Deck) SetCuePoint() {
	d.cue.memoryCue = d.position
}

// HotCuePress: if the slot is empty, sets it at the current position and
// starts playing from there; if set, jumps there and plays. Both cases
// are treated as a preview when the deck was Stopped at press time, so
// HotCueRelease can revert.
func (d *Deck) HotCuePress(slot int) {
	if slot < 0 || slot >= len(d.hotCues) {
		return
	}
	hc := &d.hotCues[slot]
	wasStopped := d.playState == Stopped
	if !hc.Set {
		hc.Set = true
		hc.Position = d.position
	}
	if wasStopped {
		hc.previewing = true
		hc.prePressPos = d.position
		hc.prePressState = d.playState
	}
	d.position = hc.Position
	d.playState = Playing
}

// HotCueRelease reverts a preview (deck had been stopped at press time)
// back to the pre-press position.
func (d *Deck) HotCueRelease(slot int) {
	if slot < 0 || slot >= len(d.hotCues) {
		return
	}
	hc := &d.hotCues[slot]
	if !hc.previewing {
		return
	}
	hc.previewing = false
	d.position = hc.prePressPos
	d.playState = hc.prePressState
}

// ClearHotCue removes a hot cue.
func (d *Deck) ClearHotCue(slot int) {
	if slot < 0 || slot >= len(d.hotCues) {
		return
	}
	d.hotCues[slot] = hotCueSlot{}
}

// SetShift updates the UI shift modifier.
func (d *Deck) SetShift(held bool) { d.shift = held }

// ToggleLoop engages a loop of the currently selected length starting at
// the beat-grid position at or before the current playback position, or
// disengages the active loop. A no-op when the track has no beat grid;
// nothing is logged in that case.
func (d *Deck) ToggleLoop() {
	if d.loop.Active {
		d.loop.Active = false
		return
	}
	d.engageLoopAtCurrentPosition()
}

// LoopIn / LoopOut set an explicit manual loop boundary; LoopOff
// disengages.
func (d *Deck) LoopIn() {
	d.loop.Start = snapToGrid(d.grid(), d.position)
	d.recomputeLoopEnd()
}

func (d *Deck) LoopOut() {
	if d.track == nil {
		return
	}
	end := d.position
	if end <= d.loop.Start {
		return
	}
	d.loop.End = end
	d.loop.Active = true
}

func (d *Deck) LoopOff() {
	d.loop.Active = false
}

// AdjustLoopLength moves the length index by +-1 within the table bounds,
// preserving the loop start.
func (d *Deck) AdjustLoopLength(direction int) {
	idx := d.loop.LengthIndex + direction
	d.loop.LengthIndex = clampTableIndex(idx)
	if d.loop.Active {
		d.recomputeLoopEnd()
	}
}

func (d *Deck) engageLoopAtCurrentPosition() {
	if d.track == nil || d.track.Metadata.Grid.Empty() {
		return // beat-dependent op on a beat-grid-less track: no-op
	}
	d.loop.Start = snapToGrid(d.grid(), d.position)
	d.recomputeLoopEnd()
	d.loop.Active = true
}

func (d *Deck) recomputeLoopEnd() {
	if d.track == nil {
		return
	}
	length := loopLengthSamples(d.loop.LengthIndex, d.track.Metadata.BPMEffective)
	end := d.loop.Start + length
	if end > d.track.DurationSamples {
		end = d.track.DurationSamples
	}
	d.loop.End = end
}

// BeatJumpForward / BeatJumpBackward jump by the current beat-jump size,
// independent of loop length. No-op on a beat-grid-less track.
func (d *Deck) BeatJumpForward()  { d.beatJump(1) }
func (d *Deck) BeatJumpBackward() { d.beatJump(-1) }

func (d *Deck) beatJump(sign int) {
	if d.track == nil || d.track.Metadata.Grid.Empty() {
		return
	}
	beats := audioLoopLength(d.beatJumpIndex)
	samplesPerBeat := 60.0 / d.track.Metadata.BPMEffective * float64(audio.SampleRate)
	delta := int64(beats * samplesPerBeat * float64(sign))
	newPos := int64(d.position) + delta
	if newPos < 0 {
		newPos = 0
	}
	if uint64(newPos) >= d.track.DurationSamples {
		newPos = int64(d.track.DurationSamples)
		d.playState = Stopped
	}
	d.position = uint64(newPos)
}

// SetBeatJumpSize selects a table entry by nearest value in beats.
func (d *Deck) SetBeatJumpSize(beats float64) {
	best := 0
	bestDist := -1.0
	for i, v := range audio.BeatJumpSizes {
		dist := v - beats
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	d.beatJumpIndex = best
}

func audioLoopLength(index int) float64 {
	return audio.BeatJumpSizes[clampTableIndex(index)]
}

// ToggleStemMute / ToggleStemSolo route to the stem's effect chain state.
func (d *Deck) ToggleStemMute(stem audio.Stem) {
	d.muted[stem] = !d.muted[stem]
}

func (d *Deck) ToggleStemSolo(stem audio.Stem) {
	d.soloed[stem] = !d.soloed[stem]
}

// LinkStem installs a pre-stretched, pre-aligned buffer as the source for
// one stem, replacing the host track's own stem. The audio thread
// performs only a pointer move.
func (d *Deck) LinkStem(stem audio.Stem, buf *audio.StereoBuffer) {
	d.linkedStems[stem] = buf
}

// UnlinkStem clears a linked-stem slot, reverting to the host track's own
// stem.
func (d *Deck) UnlinkStem(stem audio.Stem) {
	d.linkedStems[stem] = nil
}

func (d *Deck) grid() trackio.BeatGrid {
	if d.track == nil {
		return trackio.BeatGrid{}
	}
	return d.track.Metadata.Grid
}

// anySoloed reports whether any stem on this deck is soloed, which forces
// every non-soloed stem to silence for the current callback.
func (d *Deck) anySoloed() bool {
	for _, s := range d.soloed {
		if s {
			return true
		}
	}
	return false
}
