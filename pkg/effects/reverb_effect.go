package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/reverb"
)

// ReverbEffect wraps the teacher's Freeverb as a stem-chain block.
type ReverbEffect struct {
	r        *reverb.Freeverb
	bypassed bool
}

// NewReverbEffect builds a reverb effect at the engine's sample rate.
func NewReverbEffect(sampleRate float64) *ReverbEffect {
	return &ReverbEffect{r: reverb.NewFreeverb(sampleRate)}
}

func (e *ReverbEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i], r[i] = e.r.ProcessStereo(l[i], r[i])
	}
}

func (e *ReverbEffect) LatencySamples() int { return 0 }

func (e *ReverbEffect) Info() Info {
	return Info{
		Name:     "Reverb",
		Category: "reverb",
		Params: []ParamDescriptor{
			{Name: "RoomSize", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Damping", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "WetLevel", Default: 1.0 / 3.0, Min: 0, Max: 1, Unit: ""},
			{Name: "DryLevel", Default: 0, Min: 0, Max: 1, Unit: ""},
			{Name: "Width", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *ReverbEffect) GetParam(index int) float64 { return 0 }

func (e *ReverbEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.r.SetRoomSize(lerp(normalized, 0, 1))
	case 1:
		e.r.SetDamping(lerp(normalized, 0, 1))
	case 2:
		e.r.SetWetLevel(lerp(normalized, 0, 1))
	case 3:
		e.r.SetDryLevel(lerp(normalized, 0, 1))
	case 4:
		e.r.SetWidth(lerp(normalized, 0, 1))
	}
}

func (e *ReverbEffect) SetBypass(b bool) { e.bypassed = b }
func (e *ReverbEffect) IsBypassed() bool { return e.bypassed }
func (e *ReverbEffect) Reset()           { e.r.Reset() }
