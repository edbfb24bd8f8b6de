package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/distortion"
)

// SaturatorEffect wraps the teacher's TubeSaturator as a stem-chain block
// for analog-style warmth. One instance per channel: TubeSaturator keeps
// per-sample hysteresis state.
type SaturatorEffect struct {
	left, right *distortion.TubeSaturator
	bypassed    bool
}

// NewSaturatorEffect builds a tube saturation effect at the engine's
// sample rate.
func NewSaturatorEffect(sampleRate float64) *SaturatorEffect {
	return &SaturatorEffect{
		left:  distortion.NewTubeSaturator(sampleRate),
		right: distortion.NewTubeSaturator(sampleRate),
	}
}

func (e *SaturatorEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i] = float32(e.left.Process(float64(l[i])))
		r[i] = float32(e.right.Process(float64(r[i])))
	}
}

func (e *SaturatorEffect) LatencySamples() int { return 0 }

func (e *SaturatorEffect) Info() Info {
	return Info{
		Name:     "Saturator",
		Category: "distortion",
		Params: []ParamDescriptor{
			{Name: "Drive", Default: 1, Min: 1, Max: 10, Unit: ""},
			{Name: "Warmth", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Mix", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *SaturatorEffect) GetParam(index int) float64 { return 0 }

func (e *SaturatorEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		drive := lerp(normalized, 1, 10)
		e.left.SetDrive(drive)
		e.right.SetDrive(drive)
	case 1:
		warmth := lerp(normalized, 0, 1)
		e.left.SetWarmth(warmth)
		e.right.SetWarmth(warmth)
	case 2:
		mix := lerp(normalized, 0, 1)
		e.left.SetMix(mix)
		e.right.SetMix(mix)
	}
}

func (e *SaturatorEffect) SetBypass(b bool) { e.bypassed = b }
func (e *SaturatorEffect) IsBypassed() bool { return e.bypassed }
func (e *SaturatorEffect) Reset()           {}
