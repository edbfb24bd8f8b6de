package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/utility"
)

// VinylNoiseEffect blends in colored noise and crackle, then removes any
// DC offset the added noise introduces. A cheap vinyl-character effect
// built entirely from the teacher's utility primitives.
type VinylNoiseEffect struct {
	left, right *utility.NoiseGenerator
	dcL, dcR    *utility.DCBlocker
	gain        float32
	bypassed    bool
}

// NewVinylNoiseEffect builds a pink-noise vinyl effect at the engine's
// sample rate.
func NewVinylNoiseEffect(sampleRate float64) *VinylNoiseEffect {
	left := utility.NewNoiseGenerator(utility.PinkNoise)
	right := utility.NewNoiseGenerator(utility.PinkNoise)
	right.SetSeed(0xC0FFEE)
	return &VinylNoiseEffect{
		left:  left,
		right: right,
		dcL:   utility.NewDCBlocker(1, 10, sampleRate),
		dcR:   utility.NewDCBlocker(1, 10, sampleRate),
		gain:  0.02,
	}
}

func (e *VinylNoiseEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.left.GenerateAdd(l, e.gain)
	e.right.GenerateAdd(r, e.gain)
	for i := range l {
		l[i] = e.dcL.Process(l[i], 0)
		r[i] = e.dcR.Process(r[i], 0)
	}
}

func (e *VinylNoiseEffect) LatencySamples() int { return 0 }

func (e *VinylNoiseEffect) Info() Info {
	return Info{
		Name:     "VinylNoise",
		Category: "texture",
		Params: []ParamDescriptor{
			{Name: "Amount", Default: 0.02, Min: 0, Max: 0.2, Unit: ""},
		},
	}
}

func (e *VinylNoiseEffect) GetParam(index int) float64 {
	if index == 0 {
		return float64(e.gain)
	}
	return 0
}

func (e *VinylNoiseEffect) SetParam(index int, normalized float64) {
	if index == 0 {
		e.gain = float32(lerp(normalized, 0, 0.2))
	}
}

func (e *VinylNoiseEffect) SetBypass(b bool) { e.bypassed = b }
func (e *VinylNoiseEffect) IsBypassed() bool { return e.bypassed }
func (e *VinylNoiseEffect) Reset() {
	e.left.Reset()
	e.right.Reset()
}
