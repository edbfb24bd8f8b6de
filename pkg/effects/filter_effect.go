package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/filter"
)

// FilterEffect is a per-stem sweepable low-pass built on the teacher's
// Biquad. The deck's LP/HP crossover sweep (spec's mixer filter knob)
// lives in pkg/mixer.Channel instead — this is a separate, optional
// per-stem color filter in the effect chain.
type FilterEffect struct {
	sampleRate float64
	lp         *filter.Biquad
	cutoffNorm float64 // 0..1, 0=lowest cutoff 20Hz, 1=highest 20kHz
	resonance  float64 // 0..1 maps to Q 0.5..8
	bypassed   bool
}

// NewFilterEffect builds a two-channel sweepable filter defaulting to a
// fully open low-pass (no audible effect).
func NewFilterEffect(sampleRate float64) *FilterEffect {
	f := &FilterEffect{
		sampleRate: sampleRate,
		lp:         filter.NewBiquad(2),
		cutoffNorm: 1.0,
		resonance:  0.2,
	}
	f.recompute()
	return f
}

func (f *FilterEffect) recompute() {
	freq := lerp(f.cutoffNorm, 20, 20000)
	q := lerp(f.resonance, 0.5, 8)
	f.lp.SetLowpass(f.sampleRate, freq, q)
}

func (f *FilterEffect) Process(buf *audio.StereoBuffer) {
	if f.bypassed {
		return
	}
	f.lp.Process(buf.Left(), 0)
	f.lp.Process(buf.Right(), 1)
}

func (f *FilterEffect) LatencySamples() int { return 0 }

func (f *FilterEffect) Info() Info {
	return Info{
		Name:     "Filter",
		Category: "filter",
		Params: []ParamDescriptor{
			{Name: "Cutoff", Default: 1.0, Min: 0, Max: 1, Unit: ""},
			{Name: "Resonance", Default: 0.2, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (f *FilterEffect) GetParam(index int) float64 {
	switch index {
	case 0:
		return f.cutoffNorm
	case 1:
		return f.resonance
	default:
		return 0
	}
}

func (f *FilterEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		f.cutoffNorm = clamp01(normalized)
	case 1:
		f.resonance = clamp01(normalized)
	default:
		return
	}
	f.recompute()
}

func (f *FilterEffect) SetBypass(b bool)  { f.bypassed = b }
func (f *FilterEffect) IsBypassed() bool  { return f.bypassed }
func (f *FilterEffect) Reset()            { f.lp.Reset() }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
