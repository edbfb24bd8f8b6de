package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/delay"
)

// DelayEffect is a stereo echo built on two independent delay lines (one
// per channel), with feedback and a dry/wet mix.
type DelayEffect struct {
	sampleRate float64
	left, right *delay.Line
	timeMs     float64
	feedback   float64
	mix        float64
	bypassed   bool
}

// NewDelayEffect builds a delay effect with up to 2 seconds of range.
func NewDelayEffect(sampleRate float64) *DelayEffect {
	return &DelayEffect{
		sampleRate: sampleRate,
		left:       delay.New(2.0, sampleRate),
		right:      delay.New(2.0, sampleRate),
		timeMs:     250,
		feedback:   0.3,
		mix:        0.0,
	}
}

func (e *DelayEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	delaySamples := e.timeMs / 1000 * e.sampleRate
	l, r := buf.Left(), buf.Right()
	for i := range l {
		wetL := e.left.Read(delaySamples)
		e.left.Write(l[i] + wetL*float32(e.feedback))
		wetR := e.right.Read(delaySamples)
		e.right.Write(r[i] + wetR*float32(e.feedback))
		l[i] = l[i]*float32(1-e.mix) + wetL*float32(e.mix)
		r[i] = r[i]*float32(1-e.mix) + wetR*float32(e.mix)
	}
}

func (e *DelayEffect) LatencySamples() int { return 0 }

func (e *DelayEffect) Info() Info {
	return Info{
		Name:     "Delay",
		Category: "delay",
		Params: []ParamDescriptor{
			{Name: "Time", Default: 250, Min: 10, Max: 2000, Unit: "ms"},
			{Name: "Feedback", Default: 0.3, Min: 0, Max: 0.95, Unit: ""},
			{Name: "Mix", Default: 0.0, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *DelayEffect) GetParam(index int) float64 {
	switch index {
	case 0:
		return e.timeMs
	case 1:
		return e.feedback
	case 2:
		return e.mix
	default:
		return 0
	}
}

func (e *DelayEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.timeMs = lerp(normalized, 10, 2000)
	case 1:
		e.feedback = lerp(normalized, 0, 0.95)
	case 2:
		e.mix = lerp(normalized, 0, 1)
	}
}

func (e *DelayEffect) SetBypass(b bool) { e.bypassed = b }
func (e *DelayEffect) IsBypassed() bool { return e.bypassed }
func (e *DelayEffect) Reset() {
	e.left.Reset()
	e.right.Reset()
}
