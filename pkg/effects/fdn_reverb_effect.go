package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/reverb"
)

// FDNReverbEffect wraps the teacher's feedback-delay-network reverb as a
// stem-chain block, offering a denser, more diffuse tail than
// ReverbEffect's Freeverb.
type FDNReverbEffect struct {
	f        *reverb.FDN
	bypassed bool
}

// NewFDNReverbEffect builds an 8-delay-line FDN reverb at the engine's
// sample rate.
func NewFDNReverbEffect(sampleRate float64) *FDNReverbEffect {
	return &FDNReverbEffect{f: reverb.NewFDN(8, sampleRate)}
}

func (e *FDNReverbEffect) Process(buf *audio.StereoBuffer) {
	if e.bypassed {
		return
	}
	l, r := buf.Left(), buf.Right()
	for i := range l {
		l[i], r[i] = e.f.ProcessStereo(l[i], r[i])
	}
}

func (e *FDNReverbEffect) LatencySamples() int { return 0 }

func (e *FDNReverbEffect) Info() Info {
	return Info{
		Name:     "FDNReverb",
		Category: "reverb",
		Params: []ParamDescriptor{
			{Name: "Decay", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "Damping", Default: 0.5, Min: 0, Max: 1, Unit: ""},
			{Name: "WetLevel", Default: 0.3, Min: 0, Max: 1, Unit: ""},
			{Name: "DryLevel", Default: 0.7, Min: 0, Max: 1, Unit: ""},
		},
	}
}

func (e *FDNReverbEffect) GetParam(index int) float64 { return 0 }

func (e *FDNReverbEffect) SetParam(index int, normalized float64) {
	switch index {
	case 0:
		e.f.SetDecay(lerp(normalized, 0, 1))
	case 1:
		e.f.SetDamping(lerp(normalized, 0, 1))
	case 2:
		e.f.SetWetLevel(lerp(normalized, 0, 1))
	case 3:
		e.f.SetDryLevel(lerp(normalized, 0, 1))
	}
}

func (e *FDNReverbEffect) SetBypass(b bool) { e.bypassed = b }
func (e *FDNReverbEffect) IsBypassed() bool { return e.bypassed }
func (e *FDNReverbEffect) Reset()           { e.f.Reset() }
