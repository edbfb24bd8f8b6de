package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/distortion"
)

// TapeEffect wraps the teacher's TapeSaturation as a stem-chain block,
// giving a stem tape-flutter and compression coloration distinct from
// the cleaner SaturatorEffect.
type TapeEffect struct {
	t                    *distortion.TapeSaturation
	inL, inR, outL, outR []float64
	bypassed             bool
}

// NewTapeEffect builds a tape-saturation effect at the engine's sample
// rate.
func NewTapeEffect(sampleRate float64) *TapeEffect {
	return &TapeEffect{t: distortion.NewTapeSaturation(sampleRate)}
}

func (e *TapeEffect) growScratch(n int) {
	if cap(e.inL) >= n {
		e.inL, e.inR, e.outL, e.outR = e.inL[:n], e.inR[:n], e.outL[:n], e.outR[:n]
		return
	}
	e.inL, e.inR = make([]float64, n), make([]float64, n)
	e.outL, e.outR = make([]float64, n), make([]float64, n)
}

func (e *TapeEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.growScratch(len(l))
	for i := range l {
		e.inL[i] = float64(l[i])
		e.inR[i] = float64(r[i])
	}
	e.t.ProcessStereo(e.inL, e.inR, e.outL, e.outR)
	for i := range l {
		l[i] = float32(e.outL[i])
		r[i] = float32(e.outR[i])
	}
}

func (e *TapeEffect) LatencySamples() int { return 0 }

func (e *TapeEffect) Info() Info {
	return Info{
		Name:     "Tape",
		Category: "distortion",
		Params: []ParamDescriptor{
			{Name: "Saturation", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Flutter", Default: 0, Min: 0, Max: 1, Unit: ""},
			{Name: "Mix", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *TapeEffect) GetParam(index int) float64 { return 0 }

func (e *TapeEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.t.SetSaturation(lerp(normalized, 0, 1))
	case 1:
		e.t.SetFlutter(lerp(normalized, 0, 1))
	case 2:
		e.t.SetMix(lerp(normalized, 0, 1))
	}
}

func (e *TapeEffect) SetBypass(b bool) { e.bypassed = b }
func (e *TapeEffect) IsBypassed() bool { return e.bypassed }
func (e *TapeEffect) Reset()           { e.t.Reset() }
