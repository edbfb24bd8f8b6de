package effects

import "github.com/nullstage/quaddeck/pkg/audio"

// KnobTarget binds one macro knob to a single effect parameter. Setting a
// knob writes to every bound target, in order.
type KnobTarget struct {
	EffectIndex    int
	ParameterIndex int
}

const numKnobs = 8

// Chain is an ordered sequence of Effects applied in place to a stem's
// StereoBuffer, plus eight mappable macro knobs and a mute flag. Solo is
// a group-level concept the owning deck resolves across its four chains;
// Chain itself only exposes Muted so the deck can force silence.
type Chain struct {
	effects []Effect
	knobs   [numKnobs][]KnobTarget
	muted   bool
	latency int
}

// NewChain builds an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends an effect to the end of the chain and recomputes latency.
func (c *Chain) Add(e Effect) {
	c.effects = append(c.effects, e)
	c.recomputeLatency()
}

// BindKnob assigns the ordered target list for macro knob index k (0..7).
func (c *Chain) BindKnob(k int, targets []KnobTarget) {
	if k < 0 || k >= numKnobs {
		return
	}
	c.knobs[k] = targets
}

// SetKnob writes a normalized 0..1 value to every target bound to knob k.
func (c *Chain) SetKnob(k int, normalized float64) {
	if k < 0 || k >= numKnobs {
		return
	}
	for _, t := range c.knobs[k] {
		if t.EffectIndex >= 0 && t.EffectIndex < len(c.effects) {
			c.effects[t.EffectIndex].SetParam(t.ParameterIndex, normalized)
		}
	}
}

// SetMuted forces this chain's output to silence regardless of its
// effects' processing.
func (c *Chain) SetMuted(m bool) { c.muted = m }

// Muted reports the mute flag.
func (c *Chain) Muted() bool { return c.muted }

// SetBypass toggles bypass on one effect in the chain and recomputes
// cached latency.
func (c *Chain) SetBypass(effectIndex int, bypassed bool) {
	if effectIndex < 0 || effectIndex >= len(c.effects) {
		return
	}
	c.effects[effectIndex].SetBypass(bypassed)
	c.recomputeLatency()
}

func (c *Chain) recomputeLatency() {
	total := 0
	for _, e := range c.effects {
		if !e.IsBypassed() {
			total += e.LatencySamples()
		}
	}
	c.latency = total
}

// TotalLatency returns the cached sum of non-bypassed effect latencies.
func (c *Chain) TotalLatency() int { return c.latency }

// Process runs every non-bypassed effect on buf in place, then zeroes the
// buffer if muted. Mute is applied last so the chain's own state always
// wins regardless of what the effects did.
func (c *Chain) Process(buf *audio.StereoBuffer) {
	for _, e := range c.effects {
		if !e.IsBypassed() {
			e.Process(buf)
		}
	}
	if c.muted {
		buf.Silence()
	}
}

// Reset flushes every effect's internal state. Called on track load or
// seek.
func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}
