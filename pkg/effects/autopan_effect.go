package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/pan"
)

// AutoPanEffect wraps the teacher's AutoPan as a stem-chain block. The
// stem is downmixed to mono before the rotating pan is applied, since
// AutoPan's LFO drives a single shared pan position.
type AutoPanEffect struct {
	sampleRate float32
	ap         *pan.AutoPan
	mono       []float32
	bypassed   bool
}

// NewAutoPanEffect builds an auto-pan effect at the engine's sample rate
// using the constant-power pan law.
func NewAutoPanEffect(sampleRate float64) *AutoPanEffect {
	return &AutoPanEffect{
		sampleRate: float32(sampleRate),
		ap:         pan.NewAutoPan(0.5, 1.0, pan.ConstantPower),
	}
}

func (e *AutoPanEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	if cap(e.mono) < len(l) {
		e.mono = make([]float32, len(l))
	}
	mono := e.mono[:len(l)]
	for i := range l {
		mono[i] = (l[i] + r[i]) * 0.5
	}
	e.ap.Process(mono, e.sampleRate, l, r)
}

func (e *AutoPanEffect) LatencySamples() int { return 0 }

func (e *AutoPanEffect) Info() Info {
	return Info{
		Name:     "AutoPan",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Rate", Default: 0.5, Min: 0.01, Max: 10, Unit: "Hz"},
			{Name: "Depth", Default: 1, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *AutoPanEffect) GetParam(index int) float64 { return 0 }

func (e *AutoPanEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.ap.SetRate(float32(lerp(normalized, 0.01, 10)))
	case 1:
		e.ap.SetDepth(float32(lerp(normalized, 0, 1)))
	}
}

func (e *AutoPanEffect) SetBypass(b bool) { e.bypassed = b }
func (e *AutoPanEffect) IsBypassed() bool { return e.bypassed }
func (e *AutoPanEffect) Reset()           { e.ap.Reset() }
