package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/distortion"
)

// WaveshaperEffect wraps the teacher's Waveshaper as a stem-chain block.
// Memoryless per sample, so one instance serves both channels.
type WaveshaperEffect struct {
	w        *distortion.Waveshaper
	bypassed bool
}

// NewWaveshaperEffect builds a soft-clip waveshaper effect.
func NewWaveshaperEffect() *WaveshaperEffect {
	return &WaveshaperEffect{w: distortion.NewWaveshaper(distortion.CurveSoftClip)}
}

func (e *WaveshaperEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i] = float32(e.w.Process(float64(l[i])))
		r[i] = float32(e.w.Process(float64(r[i])))
	}
}

func (e *WaveshaperEffect) LatencySamples() int { return 0 }

func (e *WaveshaperEffect) Info() Info {
	return Info{
		Name:     "Waveshaper",
		Category: "distortion",
		Params: []ParamDescriptor{
			{Name: "Curve", Default: 1, Min: 0, Max: 6, Unit: ""},
			{Name: "Drive", Default: 1, Min: 1, Max: 20, Unit: ""},
			{Name: "Mix", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *WaveshaperEffect) GetParam(index int) float64 { return 0 }

func (e *WaveshaperEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.w.SetCurveType(distortion.CurveType(int(lerp(normalized, 0, 6))))
	case 1:
		e.w.SetDrive(lerp(normalized, 1, 20))
	case 2:
		e.w.SetMix(lerp(normalized, 0, 1))
	}
}

func (e *WaveshaperEffect) SetBypass(b bool) { e.bypassed = b }
func (e *WaveshaperEffect) IsBypassed() bool { return e.bypassed }
func (e *WaveshaperEffect) Reset()           {}
