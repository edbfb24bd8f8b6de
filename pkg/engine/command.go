package engine

import "github.com/nullstage/quaddeck/pkg/trackio"

// CommandKind tags an EngineCommand's payload.
type CommandKind uint8

const (
	CmdLoadTrack CommandKind = iota
	CmdUnloadTrack
	CmdPlay
	CmdPause
	CmdTogglePlay
	CmdSeek
	CmdCuePress
	CmdCueRelease
	CmdSetCuePoint
	CmdHotCuePress
	CmdHotCueRelease
	CmdClearHotCue
	CmdSetShift
	CmdToggleLoop
	CmdLoopIn
	CmdLoopOut
	CmdLoopOff
	CmdAdjustLoopLength
	CmdBeatJumpForward
	CmdBeatJumpBackward
	CmdSetBeatJumpSize
	CmdToggleStemMute
	CmdToggleStemSolo
	CmdLinkStem
	CmdSetVolume
	CmdSetCueListen
	CmdSetCrossfader // reserved, no mixing effect yet
	CmdSetGlobalBPM
	CmdAdjustBPM
)

// Command is the tagged-union wire value passed from the UI thread to the
// engine over the lock-free command queue. Every field is a plain value —
// never a reference the UI retains after pushing — so ownership of
// PreparedTrack/LinkedStemData transfers cleanly to the engine.
type Command struct {
	Kind CommandKind

	Deck  int
	Stem  int
	Slot  int
	Held  bool
	Value float64
	Sample uint64
	Direction int

	Track       *trackio.PreparedTrack
	LinkedStem  *LinkedStemData
}

// LinkedStemData is the payload delivered by the linked-stem loader and
// installed via LinkStem.
type LinkedStemData struct {
	Buffer           *linkedBufferHandle
	SourceBPM        float64
	DropMarkerSample uint64
}

// linkedBufferHandle is a forward-declared opaque handle; concrete shape
// lives in pkg/linkloader to avoid an import cycle (engine <- linkloader
// <- trackio, not the reverse).
type linkedBufferHandle = any
