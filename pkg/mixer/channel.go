// Package mixer implements the four-channel mixer: per-deck trim/EQ/filter
// channel strips, the master bus with a safety clipper and lookahead
// limiter, and the cue bus blend.
//
// EQ-knob-to-dB mapping, shelf/peak coefficients, and the one-pole
// filter-sweep formulas are grounded verbatim on the reference mixer
// implementation's ChannelStrip::process pipeline.
package mixer

import (
	"math"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/filter"
)

const (
	eqLoFreq  = 100.0
	eqMidFreq = 1000.0
	eqHiFreq  = 10000.0
	eqMidQ    = 0.7
	eqShelfQ  = 0.707
)

// Channel is one deck's strip: trim, 3-band EQ, one-pole filter sweep,
// volume fader, and cue-listen flag.
type Channel struct {
	sampleRate float64

	trim       float32
	eqLo       float64 // 0..1, 0.5 = flat
	eqMid      float64
	eqHi       float64
	filterPos  float64 // -1..+1
	volume     float32
	cueEnabled bool

	eqDirty bool

	lo  *filter.Biquad
	mid *filter.Biquad
	hi  *filter.Biquad

	lpStateL, lpStateR float32
	hpStateL, hpStateR float32
}

// NewChannel builds a flat channel strip: unity trim, flat EQ, centered
// filter, unity volume.
func NewChannel(sampleRate float64) *Channel {
	c := &Channel{
		sampleRate: sampleRate,
		trim:       1.0,
		eqLo:       0.5,
		eqMid:      0.5,
		eqHi:       0.5,
		volume:     1.0,
		eqDirty:    true,
		lo:         filter.NewBiquad(2),
		mid:        filter.NewBiquad(2),
		hi:         filter.NewBiquad(2),
	}
	c.updateEQCoeffs()
	return c
}

// SetTrimDB sets trim from a dB value clamped to [-24, 12].
func (c *Channel) SetTrimDB(db float64) {
	if db < -24 {
		db = -24
	}
	if db > 12 {
		db = 12
	}
	c.trim = float32(math.Pow(10, db/20))
}

// TrimDB returns the current trim in dB.
func (c *Channel) TrimDB() float64 {
	return 20 * math.Log10(float64(c.trim))
}

// SetEQLo/Mid/Hi set a band's knob position (0..1) and mark coefficients
// dirty for lazy recomputation.
func (c *Channel) SetEQLo(v float64)  { c.eqLo = clamp01(v); c.eqDirty = true }
func (c *Channel) SetEQMid(v float64) { c.eqMid = clamp01(v); c.eqDirty = true }
func (c *Channel) SetEQHi(v float64)  { c.eqHi = clamp01(v); c.eqDirty = true }

// SetFilter sets the filter sweep position, -1 (full low-pass) to
// +1 (full high-pass).
func (c *Channel) SetFilter(pos float64) {
	if pos < -1 {
		pos = -1
	}
	if pos > 1 {
		pos = 1
	}
	c.filterPos = pos
}

// SetVolume sets the fader 0..1.
func (c *Channel) SetVolume(v float32) { c.volume = clampF32(v, 0, 1) }

// Volume returns the current fader position.
func (c *Channel) Volume() float32 { return c.volume }

// SetCueEnabled toggles routing pre-fader signal to the cue bus.
func (c *Channel) SetCueEnabled(enabled bool) { c.cueEnabled = enabled }

// CueEnabled reports the cue-listen flag.
func (c *Channel) CueEnabled() bool { return c.cueEnabled }

// eqToDB maps a 0..1 knob value to a dB gain: 0..0.01 kills at -60dB,
// 0.01..0.5 ramps linearly -60->0dB, 0.5..1.0 ramps linearly 0->+6dB.
func eqToDB(value float64) float64 {
	switch {
	case value < 0.01:
		return -60.0
	case value < 0.5:
		t := (value - 0.01) / 0.49
		return -60.0 * (1.0 - t)
	default:
		return (value - 0.5) * 12.0
	}
}

func (c *Channel) updateEQCoeffs() {
	if !c.eqDirty {
		return
	}
	loDB := eqToDB(c.eqLo)
	midDB := eqToDB(c.eqMid)
	hiDB := eqToDB(c.eqHi)

	if math.Abs(loDB) > 0.1 {
		c.lo.SetLowShelf(c.sampleRate, eqLoFreq, eqShelfQ, loDB)
	} else {
		setPassthrough(c.lo)
	}
	if math.Abs(midDB) > 0.1 {
		c.mid.SetPeakingEQ(c.sampleRate, eqMidFreq, eqMidQ, midDB)
	} else {
		setPassthrough(c.mid)
	}
	if math.Abs(hiDB) > 0.1 {
		c.hi.SetHighShelf(c.sampleRate, eqHiFreq, eqShelfQ, hiDB)
	} else {
		setPassthrough(c.hi)
	}
	c.eqDirty = false
}

// setPassthrough installs unity coefficients: a near-flat EQ band (|dB| <=
// 0.1) skips filtering entirely rather than running a near-unity biquad.
func setPassthrough(b *filter.Biquad) {
	b.SetCoefficients(1, 0, 0, 1, 0, 0)
}

func cutoffToCoeff(cutoff, sampleRate float64) float32 {
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	return float32(dt / (rc + dt))
}

// Process runs trim -> 3-band EQ -> filter sweep on buf in place.
func (c *Channel) Process(buf *audio.StereoBuffer) {
	c.updateEQCoeffs()

	filterPos := c.filterPos
	var lpCutoff, hpCutoff float64
	if filterPos < 0 {
		lpCutoff = 20000.0 * math.Max(1.0+filterPos, 0.005)
	} else {
		lpCutoff = 20000.0
	}
	if filterPos > 0 {
		hpCutoff = 20.0 + filterPos*4980.0
	} else {
		hpCutoff = 20.0
	}
	lpCoeff := cutoffToCoeff(lpCutoff, c.sampleRate)
	hpCoeff := cutoffToCoeff(hpCutoff, c.sampleRate)

	l, r := buf.Left(), buf.Right()
	n := buf.Len()
	for i := 0; i < n; i++ {
		left := l[i] * c.trim
		right := r[i] * c.trim

		leftBuf := [1]float32{left}
		rightBuf := [1]float32{right}
		c.lo.Process(leftBuf[:], 0)
		c.lo.Process(rightBuf[:], 1)
		c.mid.Process(leftBuf[:], 0)
		c.mid.Process(rightBuf[:], 1)
		c.hi.Process(leftBuf[:], 0)
		c.hi.Process(rightBuf[:], 1)
		left, right = leftBuf[0], rightBuf[0]

		// Only the stage on the active side of centre runs, so position 0
		// is flat; an idle low-pass follows the signal and an idle
		// high-pass holds zero, so re-engaging either does not jump.
		if filterPos < 0 {
			c.lpStateL += lpCoeff * (left - c.lpStateL)
			left = c.lpStateL
			c.lpStateR += lpCoeff * (right - c.lpStateR)
			right = c.lpStateR
		} else {
			c.lpStateL, c.lpStateR = left, right
		}

		if filterPos > 0 {
			c.hpStateL += hpCoeff * (left - c.hpStateL)
			left = left - c.hpStateL
			c.hpStateR += hpCoeff * (right - c.hpStateR)
			right = right - c.hpStateR
		} else {
			c.hpStateL, c.hpStateR = 0, 0
		}

		l[i] = left
		r[i] = right
	}
}

// Reset flushes every biquad and one-pole filter state.
func (c *Channel) Reset() {
	c.lo.Reset()
	c.mid.Reset()
	c.hi.Reset()
	c.lpStateL, c.lpStateR = 0, 0
	c.hpStateL, c.hpStateR = 0, 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampF32(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
