package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/distortion"
)

// BitCrusherEffect wraps the teacher's lo-fi BitCrusher as a stem-chain
// block. One instance per channel since BitCrusher carries per-sample
// decimation and dither state internally.
type BitCrusherEffect struct {
	left, right *distortion.BitCrusher
	bypassed    bool
}

// NewBitCrusherEffect builds a bit-crusher effect at the engine's sample
// rate.
func NewBitCrusherEffect(sampleRate float64) *BitCrusherEffect {
	return &BitCrusherEffect{
		left:  distortion.NewBitCrusher(sampleRate),
		right: distortion.NewBitCrusher(sampleRate),
	}
}

func (e *BitCrusherEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i] = float32(e.left.Process(float64(l[i])))
		r[i] = float32(e.right.Process(float64(r[i])))
	}
}

func (e *BitCrusherEffect) LatencySamples() int { return 0 }

func (e *BitCrusherEffect) Info() Info {
	return Info{
		Name:     "BitCrusher",
		Category: "distortion",
		Params: []ParamDescriptor{
			{Name: "BitDepth", Default: 16, Min: 1, Max: 24, Unit: "bits"},
			{Name: "SampleRateRatio", Default: 1, Min: 0.05, Max: 1, Unit: ""},
			{Name: "Mix", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *BitCrusherEffect) GetParam(index int) float64 { return 0 }

func (e *BitCrusherEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		bits := int(lerp(normalized, 1, 24))
		e.left.SetBitDepth(bits)
		e.right.SetBitDepth(bits)
	case 1:
		ratio := lerp(normalized, 0.05, 1)
		e.left.SetSampleRateRatio(ratio)
		e.right.SetSampleRateRatio(ratio)
	case 2:
		mix := lerp(normalized, 0, 1)
		e.left.SetMix(mix)
		e.right.SetMix(mix)
	}
}

func (e *BitCrusherEffect) SetBypass(b bool) { e.bypassed = b }
func (e *BitCrusherEffect) IsBypassed() bool { return e.bypassed }
func (e *BitCrusherEffect) Reset()           {}
