package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/modulation"
)

// TremoloEffect wraps the teacher's Tremolo as a stem-chain block.
type TremoloEffect struct {
	t        *modulation.Tremolo
	bypassed bool
}

// NewTremoloEffect builds a tremolo effect at the engine's sample rate.
func NewTremoloEffect(sampleRate float64) *TremoloEffect {
	return &TremoloEffect{t: modulation.NewTremolo(sampleRate)}
}

func (e *TremoloEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.t.ProcessStereoBuffer(l, r, l, r)
}

func (e *TremoloEffect) LatencySamples() int { return 0 }

func (e *TremoloEffect) Info() Info {
	return Info{
		Name:     "Tremolo",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Rate", Default: 5, Min: 0.1, Max: 20, Unit: "Hz"},
			{Name: "Depth", Default: 0.5, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *TremoloEffect) GetParam(index int) float64 { return 0 }

func (e *TremoloEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.t.SetRate(lerp(normalized, 0.1, 20))
	case 1:
		e.t.SetDepth(lerp(normalized, 0, 1))
	}
}

func (e *TremoloEffect) SetBypass(b bool) { e.bypassed = b }
func (e *TremoloEffect) IsBypassed() bool { return e.bypassed }
func (e *TremoloEffect) Reset()           { e.t.Reset() }
