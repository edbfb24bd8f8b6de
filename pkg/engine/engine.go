// Package engine ties together the command queue, four decks, their
// time-stretchers, the latency compensator, and the mixer into the
// per-callback scheduler the driver adapter invokes.
package engine

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/deck"
	"github.com/nullstage/quaddeck/pkg/latency"
	"github.com/nullstage/quaddeck/pkg/mixer"
	"github.com/nullstage/quaddeck/pkg/stretch"
)

// Engine is the audio-thread-owned real-time core. Every exported method
// below except Process and DrainCommands is meant to be called from a
// non-RT thread through a Command, not directly.
type Engine struct {
	decks       [audio.NumDecks]*deck.Deck
	stretchers  [audio.NumDecks]*stretch.Stretcher
	comp        *latency.Compensator
	mix         *mixer.Mixer
	globalBPM   float64
	stretchIn   [audio.NumDecks]*audio.StereoBuffer
	deckOut     [audio.NumDecks]*audio.StereoBuffer
	pendingReset [audio.NumDecks]bool
}

// New constructs an engine sized for up to maxBlock frames per callback.
func New(sampleRate float64, maxBlock int) *Engine {
	e := &Engine{
		comp:      latency.NewCompensator(),
		mix:       mixer.New(sampleRate, maxBlock),
		globalBPM: audio.DefaultBPM,
	}
	for i := range e.decks {
		e.decks[i] = deck.New(i, maxBlock, sampleRate)
		e.stretchers[i] = stretch.New(sampleRate, maxBlock)
		e.stretchIn[i] = audio.NewStereoBuffer(maxBlock)
		e.deckOut[i] = audio.NewStereoBuffer(maxBlock)
	}
	return e
}

// Deck returns one deck for atomics/chain inspection from a non-RT thread.
func (e *Engine) Deck(i int) *deck.Deck { return e.decks[i] }

// GlobalBPM returns the current master tempo.
func (e *Engine) GlobalBPM() float64 { return e.globalBPM }

// GlobalLatency returns the current cross-deck latency-compensation
// ceiling, in samples.
func (e *Engine) GlobalLatency() int { return e.comp.GlobalLatency() }

// DrainCommands pops every available command and dispatches it to the
// appropriate deck, mixer channel, or engine-self state. Dispatch is a
// direct method call; draining stops when the queue is empty. Called once
// per callback, before Process.
func (e *Engine) DrainCommands(q *CommandQueue) {
	for {
		cmd, ok := q.Pop()
		if !ok {
			return
		}
		e.dispatch(cmd)
	}
}

func (e *Engine) dispatch(cmd Command) {
	d := cmd.Deck
	if d < 0 || d >= audio.NumDecks {
		return
	}
	switch cmd.Kind {
	case CmdLoadTrack:
		e.loadTrackFast(d, cmd.Track)
	case CmdUnloadTrack:
		e.decks[d].UnloadTrack()
		e.stretchers[d].Reset()
		e.comp.ClearDeck(d)
	case CmdPlay:
		e.decks[d].Play()
	case CmdPause:
		e.decks[d].Pause()
	case CmdTogglePlay:
		e.decks[d].TogglePlay()
	case CmdSeek:
		e.decks[d].Seek(cmd.Sample)
	case CmdCuePress:
		e.decks[d].CuePress()
	case CmdCueRelease:
		e.decks[d].CueRelease()
	case CmdSetCuePoint:
		e.decks[d].SetCuePoint()
	case CmdHotCuePress:
		e.decks[d].HotCuePress(cmd.Slot)
	case CmdHotCueRelease:
		e.decks[d].HotCueRelease(cmd.Slot)
	case CmdClearHotCue:
		e.decks[d].ClearHotCue(cmd.Slot)
	case CmdSetShift:
		e.decks[d].SetShift(cmd.Held)
	case CmdToggleLoop:
		e.decks[d].ToggleLoop()
	case CmdLoopIn:
		e.decks[d].LoopIn()
	case CmdLoopOut:
		e.decks[d].LoopOut()
	case CmdLoopOff:
		e.decks[d].LoopOff()
	case CmdAdjustLoopLength:
		e.decks[d].AdjustLoopLength(cmd.Direction)
	case CmdBeatJumpForward:
		e.decks[d].BeatJumpForward()
	case CmdBeatJumpBackward:
		e.decks[d].BeatJumpBackward()
	case CmdSetBeatJumpSize:
		e.decks[d].SetBeatJumpSize(cmd.Value)
	case CmdToggleStemMute:
		e.decks[d].ToggleStemMute(audio.Stem(cmd.Stem))
	case CmdToggleStemSolo:
		e.decks[d].ToggleStemSolo(audio.Stem(cmd.Stem))
	case CmdLinkStem:
		// Concrete buffer installation is handled by the linkloader
		// package's own dispatch hook (it owns the *audio.StereoBuffer
		// type behind LinkedStemData); engine only routes by deck/stem.
		e.onLinkStem(d, audio.Stem(cmd.Stem), cmd.LinkedStem)
	case CmdSetVolume:
		e.mix.Channel(d).SetVolume(float32(cmd.Value))
	case CmdSetCueListen:
		e.mix.Channel(d).SetCueEnabled(cmd.Held)
	case CmdSetCrossfader:
		// reserved: no mixing effect yet.
	case CmdSetGlobalBPM:
		e.SetGlobalBPM(cmd.Value)
	case CmdAdjustBPM:
		e.SetGlobalBPM(e.globalBPM + cmd.Value)
	}
}

// onLinkStem is a seam the linkloader package fills via SetLinkStemHook;
// left nil it is a no-op and LinkStem commands are dropped without any
// log record.
var linkStemHook func(e *Engine, deck int, stem audio.Stem, data *LinkedStemData)

// SetLinkStemHook installs the concrete handler that knows how to turn a
// LinkedStemData payload into a *audio.StereoBuffer installed on a deck.
func SetLinkStemHook(fn func(e *Engine, deck int, stem audio.Stem, data *LinkedStemData)) {
	linkStemHook = fn
}

func (e *Engine) onLinkStem(d int, stem audio.Stem, data *LinkedStemData) {
	if linkStemHook != nil {
		linkStemHook(e, d, stem, data)
	}
}

// SetGlobalBPM clamps to [MinBPM, MaxBPM] and recomputes every loaded
// deck's stretch ratio.
func (e *Engine) SetGlobalBPM(bpm float64) {
	if bpm < audio.MinBPM {
		bpm = audio.MinBPM
	}
	if bpm > audio.MaxBPM {
		bpm = audio.MaxBPM
	}
	e.globalBPM = bpm
	for i, d := range e.decks {
		if !d.HasTrack() {
			continue
		}
		e.recomputeDeckStretch(i)
	}
}

// AdjustBPM is a convenience wrapper around SetGlobalBPM.
func (e *Engine) AdjustBPM(delta float64) { e.SetGlobalBPM(e.globalBPM + delta) }
