// Package trackio owns the track-domain data model (beat grids, cues,
// loops, stem links, prepared tracks) and the Prepared-WAV codec that
// reads and writes them to disk.
package trackio

import (
	"sync/atomic"

	"github.com/nullstage/quaddeck/pkg/audio"
)

// BeatGrid is an ordered, strictly increasing sequence of sample indices
// marking beats, plus the index of the first beat in Positions.
type BeatGrid struct {
	Positions  []uint64
	FirstBeat  int
}

// Empty reports whether this grid has no beats. Beat-dependent features
// (loop, beat-jump, slicer) are no-ops against an empty grid.
func (g BeatGrid) Empty() bool { return len(g.Positions) == 0 }

// CuePoint is one of up to eight hot cues on a deck.
type CuePoint struct {
	Index    int
	Position uint64
	Label    string
	Color    uint32
	Set      bool
}

// SavedLoop is a user-stored loop region, end exclusive and strictly
// greater than start.
type SavedLoop struct {
	Index  int
	Start  uint64
	End    uint64
	Label  string
	Color  uint32
}

// StemLinkReference declares that a deck's stem should be fed from a
// different track's same-index stem, time-stretched and drop-aligned to
// the host deck's track.
type StemLinkReference struct {
	SourcePath string
	StemIndex  int
}

// TrackMetadata is everything known about a track besides its audio.
type TrackMetadata struct {
	BPMOriginal        float64
	BPMEffective        float64
	Key                 string
	FirstBeatSample     uint64
	Grid                BeatGrid
	CuePoints           [8]CuePoint
	Loops               []SavedLoop
	StemLinks           [audio.NumStems]*StemLinkReference
	DropMarkerSample    *uint64
	IntegratedLoudness  *float32
	OverviewPeaks       []PeakPair
	DurationSamples     uint64
}

// PeakPair is a (min, max) sample-amplitude pair for one waveform bucket.
type PeakPair struct {
	Min float32
	Max float32
}

// PreparedTrack is a fully-loaded track: stem buffers behind an
// atomically-reference-counted handle plus metadata. Immutable once
// constructed — all expensive work is already done, so handing it to the
// audio thread is an O(1) pointer move.
type PreparedTrack struct {
	refcount        atomic.Int32
	Stems           *audio.StemBuffers
	Metadata        TrackMetadata
	DurationSamples uint64
	DurationSeconds float64
	onRelease       func(*PreparedTrack)
}

// NewPreparedTrack wraps stem buffers and metadata with a starting
// refcount of 1. onRelease is invoked (by whichever thread brings the
// count to zero) and should hand the track to the deferred-reclaim
// graveyard rather than do any freeing inline.
func NewPreparedTrack(stems *audio.StemBuffers, meta TrackMetadata, onRelease func(*PreparedTrack)) *PreparedTrack {
	pt := &PreparedTrack{
		Stems:           stems,
		Metadata:        meta,
		DurationSamples: meta.DurationSamples,
		DurationSeconds: float64(meta.DurationSamples) / float64(audio.SampleRate),
		onRelease:       onRelease,
	}
	pt.refcount.Store(1)
	return pt
}

// Retain increments the reference count. Safe to call from any thread;
// allocation-free.
func (pt *PreparedTrack) Retain() {
	pt.refcount.Add(1)
}

// Release decrements the reference count. If it reaches zero, onRelease
// is invoked — on the audio thread this must route to the deferred-reclaim
// graveyard, never to an inline free.
func (pt *PreparedTrack) Release() {
	if pt.refcount.Add(-1) == 0 && pt.onRelease != nil {
		pt.onRelease(pt)
	}
}
