package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/dynamics"
)

// CompressorEffect wraps the teacher's feed-forward Compressor as a
// stem-chain block.
type CompressorEffect struct {
	c        *dynamics.Compressor
	bypassed bool
}

// NewCompressorEffect builds a compressor effect at the engine's
// sample rate.
func NewCompressorEffect(sampleRate float64) *CompressorEffect {
	return &CompressorEffect{c: dynamics.NewCompressor(sampleRate)}
}

func (e *CompressorEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.c.ProcessStereo(l, r, l, r)
}

func (e *CompressorEffect) LatencySamples() int { return 0 }

func (e *CompressorEffect) Info() Info {
	return Info{
		Name:     "Compressor",
		Category: "dynamics",
		Params: []ParamDescriptor{
			{Name: "Threshold", Default: -20, Min: -60, Max: 0, Unit: "dB"},
			{Name: "Ratio", Default: 4, Min: 1, Max: 20, Unit: ":1"},
			{Name: "Attack", Default: 0.005, Min: 0.0001, Max: 0.1, Unit: "s"},
			{Name: "Release", Default: 0.05, Min: 0.01, Max: 1.0, Unit: "s"},
			{Name: "Makeup", Default: 0, Min: 0, Max: 24, Unit: "dB"},
		},
	}
}

func (e *CompressorEffect) GetParam(index int) float64 {
	// The teacher's Compressor does not expose getters for every field;
	// the chain tracks last-set normalized values for knob mapping in
	// the Chain itself, so GetParam here only needs to satisfy the
	// interface for effects that are queried directly.
	return 0
}

func (e *CompressorEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.c.SetThreshold(lerp(normalized, -60, 0))
	case 1:
		e.c.SetRatio(lerp(normalized, 1, 20))
	case 2:
		e.c.SetAttack(lerp(normalized, 0.0001, 0.1))
	case 3:
		e.c.SetRelease(lerp(normalized, 0.01, 1.0))
	case 4:
		e.c.SetMakeupGain(lerp(normalized, 0, 24))
	}
}

func (e *CompressorEffect) SetBypass(b bool) { e.bypassed = b }
func (e *CompressorEffect) IsBypassed() bool { return e.bypassed }
func (e *CompressorEffect) Reset()           { e.c.Reset() }
