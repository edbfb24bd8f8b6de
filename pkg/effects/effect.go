// Package effects implements the per-stem effect chain: a fixed interface
// any DSP block satisfies, a chain that runs a sequence of them in place,
// and eight mappable macro knobs bound to ordered effect/parameter targets.
//
// Individual effect blocks wrap the teacher's pkg/dsp primitives
// (filter.Biquad, dynamics.Compressor, delay.Line, modulation.*) behind
// this uniform interface.
package effects

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/utility"
)

// ParamDescriptor is static metadata about one effect parameter.
type ParamDescriptor struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
	Unit    string
}

// Info is static metadata about an effect: name, category, and up to
// eight parameter descriptors.
type Info struct {
	Name     string
	Category string
	Params   []ParamDescriptor
}

// Effect is the uniform interface every stem-chain DSP block satisfies.
type Effect interface {
	Process(buf *audio.StereoBuffer)
	LatencySamples() int
	Info() Info
	GetParam(index int) float64
	SetParam(index int, normalized float64)
	SetBypass(bypassed bool)
	IsBypassed() bool
	Reset()
}

// lerp maps a normalized 0..1 value into [min, max].
func lerp(normalized, min, max float64) float64 {
	normalized = utility.ClampParameter(normalized, 0, 1)
	return utility.ScaleParameter(normalized, min, max)
}

// normalize maps a value in [min, max] back to 0..1.
func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return utility.ClampParameter(utility.UnscaleParameter(value, min, max), 0, 1)
}
