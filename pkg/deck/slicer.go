package deck

// SlicerPreset assigns each of the 16 step slots to a slice index within
// the current beat range, so pressing a step plays that slice.
type SlicerPreset struct {
	Slices [16]int
}

// slicerState holds up to 8 preset slots plus the currently selected one.
type slicerState struct {
	presets  [8]SlicerPreset
	selected int
}

func newSlicerState() slicerState {
	s := slicerState{}
	for p := range s.presets {
		for i := range s.presets[p].Slices {
			s.presets[p].Slices[i] = i
		}
	}
	return s
}
