package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/dynamics"
)

// GateEffect wraps the teacher's noise Gate as a stem-chain block, useful
// for cleaning up bleed on a stem with a quiet gap between phrases.
type GateEffect struct {
	g        *dynamics.Gate
	bypassed bool
}

// NewGateEffect builds a gate effect at the engine's sample rate.
func NewGateEffect(sampleRate float64) *GateEffect {
	return &GateEffect{g: dynamics.NewGate(sampleRate)}
}

func (e *GateEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.g.ProcessStereo(l, r, l, r)
}

func (e *GateEffect) LatencySamples() int { return 0 }

func (e *GateEffect) Info() Info {
	return Info{
		Name:     "Gate",
		Category: "dynamics",
		Params: []ParamDescriptor{
			{Name: "Threshold", Default: -40, Min: -80, Max: 0, Unit: "dB"},
			{Name: "Attack", Default: 0.001, Min: 0.0001, Max: 0.1, Unit: "s"},
			{Name: "Release", Default: 0.1, Min: 0.01, Max: 1.0, Unit: "s"},
			{Name: "Range", Default: -60, Min: -96, Max: 0, Unit: "dB"},
		},
	}
}

func (e *GateEffect) GetParam(index int) float64 { return 0 }

func (e *GateEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.g.SetThreshold(lerp(normalized, -80, 0))
	case 1:
		e.g.SetAttack(lerp(normalized, 0.0001, 0.1))
	case 2:
		e.g.SetRelease(lerp(normalized, 0.01, 1.0))
	case 3:
		e.g.SetRange(lerp(normalized, -96, 0))
	}
}

func (e *GateEffect) SetBypass(b bool) { e.bypassed = b }
func (e *GateEffect) IsBypassed() bool { return e.bypassed }
func (e *GateEffect) Reset()           { e.g.Reset() }
