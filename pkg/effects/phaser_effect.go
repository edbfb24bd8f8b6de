package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/modulation"
)

// PhaserEffect wraps the teacher's all-pass Phaser as a stem-chain block.
type PhaserEffect struct {
	p        *modulation.Phaser
	bypassed bool
}

// NewPhaserEffect builds a phaser effect at the engine's sample rate.
func NewPhaserEffect(sampleRate float64) *PhaserEffect {
	return &PhaserEffect{p: modulation.NewPhaser(sampleRate)}
}

func (e *PhaserEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	e.p.ProcessStereoBuffer(l, r, l, r)
}

func (e *PhaserEffect) LatencySamples() int { return 0 }

func (e *PhaserEffect) Info() Info {
	return Info{
		Name:     "Phaser",
		Category: "modulation",
		Params: []ParamDescriptor{
			{Name: "Rate", Default: 0.5, Min: 0.01, Max: 10, Unit: "Hz"},
			{Name: "Depth", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Feedback", Default: 0, Min: 0, Max: 0.95, Unit: ""},
			{Name: "Mix", Default: 0.5, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *PhaserEffect) GetParam(index int) float64 { return 0 }

func (e *PhaserEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.p.SetRate(lerp(normalized, 0.01, 10))
	case 1:
		e.p.SetDepth(lerp(normalized, 0, 1))
	case 2:
		e.p.SetFeedback(lerp(normalized, 0, 0.95))
	case 3:
		e.p.SetMix(lerp(normalized, 0, 1))
	}
}

func (e *PhaserEffect) SetBypass(b bool) { e.bypassed = b }
func (e *PhaserEffect) IsBypassed() bool { return e.bypassed }
func (e *PhaserEffect) Reset()           { e.p.Reset() }
