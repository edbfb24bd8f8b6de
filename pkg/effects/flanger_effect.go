package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/modulation"
)

// FlangerEffect wraps the teacher's Flanger as a stem-chain block.
type FlangerEffect struct {
	f        *modulation.Flanger
	bypassed bool
}

// NewFlangerEffect builds a flanger effect at the engine's sample rate.
func NewFlangerEffect(sampleRate float64) *FlangerEffect {
	return &FlangerEffect{f: modulation.NewFlanger(sampleRate)}
}

func (e *FlangerEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.f.ProcessStereoBuffer(l, r, l, r)
}

func (e *FlangerEffect) LatencySamples() int { return 0 }

func (e *FlangerEffect) Info() Info {
	return Info{
		Name:     "Flanger",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Rate", Default: 0.5, Min: 0.01, Max: 10, Unit: "Hz"},
			{Name: "Depth", Default: 2, Min: 0, Max: 10, Unit: "ms"},
			{Name: "Feedback", Default: 0, Min: -0.95, Max: 0.95, Unit: ""},
			{Name: "Mix", Default: 0.5, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *FlangerEffect) GetParam(index int) float64 { return 0 }

func (e *FlangerEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.f.SetRate(lerp(normalized, 0.01, 10))
	case 1:
		e.f.SetDepth(lerp(normalized, 0, 10))
	case 2:
		e.f.SetFeedback(lerp(normalized, -0.95, 0.95))
	case 3:
		e.f.SetMix(lerp(normalized, 0, 1))
	}
}

func (e *FlangerEffect) SetBypass(b bool) { e.bypassed = b }
func (e *FlangerEffect) IsBypassed() bool { return e.bypassed }
func (e *FlangerEffect) Reset()           { e.f.Reset() }
