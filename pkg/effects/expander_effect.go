package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/dynamics"
)

// ExpanderEffect wraps the teacher's downward Expander as a stem-chain
// block, widening dynamic range on a stem the compressor has flattened.
type ExpanderEffect struct {
	e        *dynamics.Expander
	bypassed bool
}

// NewExpanderEffect builds an expander effect at the engine's sample rate.
func NewExpanderEffect(sampleRate float64) *ExpanderEffect {
	return &ExpanderEffect{e: dynamics.NewExpander(sampleRate)}
}

func (e *ExpanderEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.e.ProcessStereo(l, r, l, r)
}

func (e *ExpanderEffect) LatencySamples() int { return 0 }

func (e *ExpanderEffect) Info() Info {
	return Info{
		Name:     "Expander",
		Category: "dynamics",
		Params: []ParamDescriptor{
			{Name: "Threshold", Default: -30, Min: -60, Max: 0, Unit: "dB"},
			{Name: "Ratio", Default: 2, Min: 1, Max: 10, Unit: ":1"},
			{Name: "Attack", Default: 0.01, Min: 0.0001, Max: 0.1, Unit: "s"},
			{Name: "Release", Default: 0.1, Min: 0.01, Max: 1.0, Unit: "s"},
		},
	}
}

func (e *ExpanderEffect) GetParam(index int) float64 { return 0 }

func (e *ExpanderEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.e.SetThreshold(lerp(normalized, -60, 0))
	case 1:
		e.e.SetRatio(lerp(normalized, 1, 10))
	case 2:
		e.e.SetAttack(lerp(normalized, 0.0001, 0.1))
	case 3:
		e.e.SetRelease(lerp(normalized, 0.01, 1.0))
	}
}

func (e *ExpanderEffect) SetBypass(b bool) { e.bypassed = b }
func (e *ExpanderEffect) IsBypassed() bool { return e.bypassed }
func (e *ExpanderEffect) Reset()           { e.e.Reset() }
