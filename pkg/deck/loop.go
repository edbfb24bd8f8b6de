package deck

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

// LoopState is a deck's current loop region. Invariant: when Active,
// Start < End <= track length, and (End - Start) corresponds to the
// LoopLengths table entry at LengthIndex, snapped to beat boundaries.
type LoopState struct {
	Active      bool
	LengthIndex int // index into audio.LoopLengths
	Start       uint64
	End         uint64
}

// defaultLoopLengthIndex is the 1-beat entry.
const defaultLoopLengthIndex = 2

func newLoopState() LoopState {
	return LoopState{LengthIndex: defaultLoopLengthIndex}
}

// loopLengthSamples converts a LoopLengths table entry to samples given
// the track's BPM.
func loopLengthSamples(lengthIndex int, bpm float64) uint64 {
	beats := audio.LoopLengths[clampTableIndex(lengthIndex)]
	samplesPerBeat := 60.0 / bpm * float64(audio.SampleRate)
	return uint64(beats * samplesPerBeat)
}

func clampTableIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(audio.LoopLengths) {
		return len(audio.LoopLengths) - 1
	}
	return i
}

// snapToGrid returns the beat-grid position at or before sample s, or s
// unchanged if the grid is empty.
func snapToGrid(grid trackio.BeatGrid, s uint64) uint64 {
	if grid.Empty() {
		return s
	}
	best := grid.Positions[0]
	for _, p := range grid.Positions {
		if p > s {
			break
		}
		best = p
	}
	return best
}
