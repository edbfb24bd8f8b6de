package audio

// Engine-wide constants, grounded in the original implementation's
// types module and carried forward unchanged.
const (
	SampleRate        = 48000
	NumDecks          = 4
	MaxLatencySamples = 4800 // 100ms @ 48kHz
	MaxBufferSize     = 8192
	MinBPM            = 30.0
	MaxBPM            = 200.0
	DefaultBPM        = 128.0
)

// LoopLengths is the fixed table of selectable loop lengths, in beats.
var LoopLengths = [7]float64{0.25, 0.5, 1, 2, 4, 8, 16}

// BeatJumpSizes is the fixed table of selectable beat-jump sizes, in beats.
var BeatJumpSizes = [7]float64{0.25, 0.5, 1, 2, 4, 8, 16}
