package deck

import "github.com/nullstage/quaddeck/pkg/trackio"

// cueState tracks the CDJ-style memory cue press/release behavior: press
// jumps to (and plays from, as a preview) the memory cue; release returns
// to the pre-press position, Stopped, unless the deck was Playing before
// the press or the user started Playing during it, in which case it keeps
// Playing from where the cue left it.
type cueState struct {
	memoryCue     uint64
	pressed       bool
	prePressPos   uint64
	prePressState PlayState
}

// hotCueSlot is one of up to eight user-settable hot cues.
type hotCueSlot struct {
	trackio.CuePoint
	previewing    bool
	prePressPos   uint64
	prePressState PlayState
}
