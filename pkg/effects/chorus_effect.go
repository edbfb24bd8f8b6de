package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/modulation"
)

// ChorusEffect wraps the teacher's multi-voice Chorus as a stem-chain
// block.
type ChorusEffect struct {
	c        *modulation.Chorus
	bypassed bool
}

// NewChorusEffect builds a chorus effect at the engine's sample rate.
func NewChorusEffect(sampleRate float64) *ChorusEffect {
	return &ChorusEffect{c: modulation.NewChorus(sampleRate)}
}

func (e *ChorusEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.c.ProcessStereoBuffer(l, r, l, r)
}

func (e *ChorusEffect) LatencySamples() int { return 0 }

func (e *ChorusEffect) Info() Info {
	return Info{
		Name:     "Chorus",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Rate", Default: 0.5, Min: 0.01, Max: 10, Unit: "Hz"},
			{Name: "Depth", Default: 2, Min: 0, Max: 10, Unit: "ms"},
			{Name: "Mix", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Feedback", Default: 0, Min: 0, Max: 0.5, Unit: ""},
		},
	}
}

func (e *ChorusEffect) GetParam(index int) float64 { return 0 }

func (e *ChorusEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.c.SetRate(lerp(normalized, 0.01, 10))
	case 1:
		e.c.SetDepth(lerp(normalized, 0, 10))
	case 2:
		e.c.SetMix(lerp(normalized, 0, 1))
	case 3:
		e.c.SetFeedback(lerp(normalized, 0, 0.5))
	}
}

func (e *ChorusEffect) SetBypass(b bool) { e.bypassed = b }
func (e *ChorusEffect) IsBypassed() bool { return e.bypassed }
func (e *ChorusEffect) Reset()           { e.c.Reset() }
