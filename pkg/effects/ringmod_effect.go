package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/modulation"
)

// RingModEffect wraps the teacher's RingModulator as a stem-chain block.
type RingModEffect struct {
	rm       *modulation.RingModulator
	bypassed bool
}

// NewRingModEffect builds a ring-modulator effect at the engine's sample
// rate.
func NewRingModEffect(sampleRate float64) *RingModEffect {
	return &RingModEffect{rm: modulation.NewRingModulator(sampleRate)}
}

func (e *RingModEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.rm.ProcessStereoBuffer(l, r, l, r)
}

func (e *RingModEffect) LatencySamples() int { return 0 }

func (e *RingModEffect) Info() Info {
	return Info{
		Name:     "RingMod",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Frequency", Default: 440, Min: 0.1, Max: 5000, Unit: "Hz"},
			{Name: "Mix", Default: 0.5, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *RingModEffect) GetParam(index int) float64 { return 0 }

func (e *RingModEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.rm.SetFrequency(lerp(normalized, 0.1, 5000))
	case 1:
		e.rm.SetMix(lerp(normalized, 0, 1))
	}
}

func (e *RingModEffect) SetBypass(b bool) { e.bypassed = b }
func (e *RingModEffect) IsBypassed() bool { return e.bypassed }
func (e *RingModEffect) Reset()           { e.rm.Reset() }
