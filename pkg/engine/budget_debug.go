//go:build debug

// Debug-build-only latency budget tracking: timed wrapper around
// Process, posting a LatencyBudgetExceeded diagnostic when one callback
// takes longer than the buffer's real-time deadline allows. Excluded
// from release builds so the timing call itself never costs anything on
// the audio thread in production.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/nullstage/quaddeck/pkg/logdiag"
)

// BudgetMonitor tracks worst-case Process duration against a per-callback
// deadline computed from the configured sample rate and block size.
type BudgetMonitor struct {
	deadline  time.Duration
	ring      *logdiag.Ring
	exceeded  atomic.Uint64
	worstNs   atomic.Int64
}

// NewBudgetMonitor builds a monitor with a deadline derived from
// framesPerCallback/sampleRate.
func NewBudgetMonitor(ring *logdiag.Ring, sampleRate float64, framesPerCallback int) *BudgetMonitor {
	return &BudgetMonitor{
		deadline: time.Duration(float64(framesPerCallback) / sampleRate * float64(time.Second)),
		ring:     ring,
	}
}

// Track times fn (meant to wrap one Process call) and posts a diagnostic
// record if it overran the deadline.
func (b *BudgetMonitor) Track(samplePos uint64, fn func()) {
	start := time.Now()
	fn()
	elapsed := time.Since(start)

	if ns := elapsed.Nanoseconds(); ns > b.worstNs.Load() {
		b.worstNs.Store(ns)
	}
	if elapsed > b.deadline {
		b.exceeded.Add(1)
		if b.ring != nil {
			b.ring.Post(samplePos, logdiag.LevelWarn, 1, "LatencyBudgetExceeded")
		}
	}
}

// Exceeded returns the number of callbacks that overran their deadline.
func (b *BudgetMonitor) Exceeded() uint64 { return b.exceeded.Load() }

// WorstCase returns the worst observed Process duration.
func (b *BudgetMonitor) WorstCase() time.Duration { return time.Duration(b.worstNs.Load()) }
