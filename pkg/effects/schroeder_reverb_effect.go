package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/reverb"
)

// SchroederReverbEffect wraps the teacher's comb/allpass Schroeder reverb
// as a stem-chain block: a cheaper, more metallic-sounding alternative to
// ReverbEffect and FDNReverbEffect.
type SchroederReverbEffect struct {
	s        *reverb.Schroeder
	bypassed bool
}

// NewSchroederReverbEffect builds a Schroeder reverb at the engine's
// sample rate.
func NewSchroederReverbEffect(sampleRate float64) *SchroederReverbEffect {
	return &SchroederReverbEffect{s: reverb.NewSchroeder(sampleRate)}
}

func (e *SchroederReverbEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i], r[i] = e.s.ProcessStereo(l[i], r[i])
	}
}

func (e *SchroederReverbEffect) LatencySamples() int { return 0 }

func (e *SchroederReverbEffect) Info() Info {
	return Info{
		Name:     "SchroederReverb",
		Category: "reverb",
		Params: []ParamDescriptor{
			{Name: "RoomSize", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Damping", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "WetLevel", Default: 0.3, Min: 0, Max: 1, Unit: ""},
			{Name: "DryLevel", Default: 0.7, Min: 0, Max: 1, Unit: ""},
			{Name: "Width", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *SchroederReverbEffect) GetParam(index int) float64 { return 0 }

func (e *SchroederReverbEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.s.SetRoomSize(lerp(normalized, 0, 1))
	case 1:
		e.s.SetDamping(lerp(normalized, 0, 1))
	case 2:
		e.s.SetWetLevel(lerp(normalized, 0, 1))
	case 3:
		e.s.SetDryLevel(lerp(normalized, 0, 1))
	case 4:
		e.s.SetWidth(lerp(normalized, 0, 1))
	}
}

func (e *SchroederReverbEffect) SetBypass(b bool) { e.bypassed = b }
func (e *SchroederReverbEffect) IsBypassed() bool { return e.bypassed }
func (e *SchroederReverbEffect) Reset()           { e.s.Reset() }
