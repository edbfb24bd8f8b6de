package mixer

import (
	"sync/atomic"

	"github.com/nullstage/quaddeck/pkg/dsp/gain"
	"github.com/nullstage/quaddeck/pkg/dsp/dynamics"
)

// clipCeilingDB is the safety clipper's fixed ceiling (0 dBFS).
const clipCeilingDB = 0.0

// clipper is a zero-latency, per-sample soft-knee safety clipper applied
// before the lookahead limiter, grounded on the teacher's
// dsp/gain.SoftClip transfer curve.
type clipper struct {
	threshold float32
	clipped   atomic.Bool
}

func newClipper() *clipper {
	return &clipper{threshold: gain.DbToLinear32(clipCeilingDB)}
}

func (c *clipper) process(l, r []float32) {
	any := false
	for i := range l {
		before := l[i]
		l[i] = gain.SoftClip(l[i], c.threshold)
		if l[i] != before {
			any = true
		}
		beforeR := r[i]
		r[i] = gain.SoftClip(r[i], c.threshold)
		if r[i] != beforeR {
			any = true
		}
	}
	if any {
		c.clipped.Store(true)
	}
}

// ClipDetected reports (and does not clear) whether the clipper engaged
// during any recent callback; UI threads poll this for a clip indicator.
func (c *clipper) ClipDetected() bool { return c.clipped.Load() }

// limiter wraps the teacher's lookahead brick-wall Limiter for the master
// bus's second stage of overload protection.
type limiter struct {
	l *dynamics.Limiter
	r *dynamics.Limiter
}

func newLimiter(sampleRate float64) *limiter {
	return &limiter{
		l: dynamics.NewLimiter(sampleRate),
		r: dynamics.NewLimiter(sampleRate),
	}
}

func (lm *limiter) process(l, r []float32) {
	for i := range l {
		l[i] = lm.l.Process(l[i])
		r[i] = lm.r.Process(r[i])
	}
}

func (lm *limiter) reset() {
	lm.l.Reset()
	lm.r.Reset()
}
