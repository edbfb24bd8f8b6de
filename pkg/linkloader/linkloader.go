// Package linkloader prepares a stem from one track to be substituted
// onto a different (host) deck: it loads the source stem, time-stretches
// it to the host's effective BPM, aligns it so the source's drop marker
// lands on the host's drop marker, and computes overview waveform peaks —
// all off the audio thread. High-resolution peaks are not computed here,
// and the overview peaks are not stored or sent anywhere. The finished
// buffer is installed via the engine's LinkStem command, registered
// through engine.SetLinkStemHook so pkg/engine never imports this
// package.
package linkloader

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/engine"
	"github.com/nullstage/quaddeck/pkg/stretch"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

// overviewPeakCount is the bucket count for the low-resolution waveform
// shown at full-track zoom; the catalog's high-res (65536-bucket) peaks
// are computed at import time by pkg/catalog, not here.
const overviewPeakCount = 800

// Request asks the linked-stem loader to prepare one stem from a source
// track file for installation on a host deck.
type Request struct {
	Deck             int
	Stem             audio.Stem
	SourcePath       string
	HostBPM          float64
	HostDropMarker   uint64
}

// Loader decodes, stretches, and aligns linked stems in the background.
type Loader struct {
	queue    *engine.CommandQueue
	log      zerolog.Logger
	requests chan Request
}

// New starts a Loader with a single background worker (link installs are
// comparatively rare UI actions, unlike the bulk track loader's pool) and
// installs the engine-side hook that turns a finished buffer into a
// LinkStem command payload.
func New(ctx context.Context, queue *engine.CommandQueue, log zerolog.Logger) *Loader {
	l := &Loader{queue: queue, log: log, requests: make(chan Request, 8)}
	engine.SetLinkStemHook(installHook)
	go l.run(ctx)
	return l
}

func (l *Loader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-l.requests:
			if !ok {
				return
			}
			l.handle(req)
		}
	}
}

// Submit enqueues a link request; dropped with a log warning if the
// internal queue is full.
func (l *Loader) Submit(req Request) {
	select {
	case l.requests <- req:
	default:
		l.log.Warn().Int("deck", req.Deck).Str("stem", req.Stem.String()).Msg("linkloader: request dropped, queue full")
	}
}

func (l *Loader) handle(req Request) {
	stems, meta, err := trackio.ReadPreparedWAV(req.SourcePath)
	if err != nil {
		l.log.Error().Err(err).Str("path", req.SourcePath).Msg("linkloader: decode failed")
		return
	}
	source := stems.Stems[req.Stem]

	aligned := alignToHostDrop(source, meta, req.HostDropMarker)
	stretched := stretchOffline(aligned, meta.BPMEffective, req.HostBPM)
	_ = buildPeaks(stretched) // overview peaks only; the result is discarded

	cmd := engine.Command{
		Kind: engine.CmdLinkStem,
		Deck: req.Deck,
		Stem: int(req.Stem),
		LinkedStem: &engine.LinkedStemData{
			SourceBPM:        meta.BPMEffective,
			DropMarkerSample: req.HostDropMarker,
		},
	}
	var handle any = stretched
	cmd.LinkedStem.Buffer = &handle
	if !l.queue.Push(cmd) {
		l.log.Error().Str("path", req.SourcePath).Msg("linkloader: command queue full, linked stem discarded")
	}
}

// alignToHostDrop shifts source so its own drop marker (if known) lines
// up at the host's drop marker sample, by inserting or trimming leading
// silence. Falls back to the unshifted buffer if the source has no drop
// marker recorded.
func alignToHostDrop(source *audio.StereoBuffer, meta trackio.TrackMetadata, hostDrop uint64) *audio.StereoBuffer {
	if meta.DropMarkerSample == nil {
		return source
	}
	sourceDrop := *meta.DropMarkerSample
	if sourceDrop == hostDrop {
		return source
	}
	n := source.Len()
	out := audio.NewStereoBuffer(n)
	out.SetLen(n)
	out.Silence()
	if sourceDrop < hostDrop {
		// Source drop happens earlier: pad with leading silence.
		shift := int(hostDrop - sourceDrop)
		for i := 0; i+shift < n; i++ {
			out.Set(i+shift, source.At(i))
		}
	} else {
		// Source drop happens later: trim the leading excess.
		shift := int(sourceDrop - hostDrop)
		for i := 0; i+shift < n; i++ {
			out.Set(i, source.At(i+shift))
		}
	}
	return out
}

// stretchOffline runs the same Hermite resampler the real-time stretcher
// uses, but to completion in one pass rather than per-callback, since
// this buffer is prepared once ahead of time.
func stretchOffline(source *audio.StereoBuffer, sourceBPM, hostBPM float64) *audio.StereoBuffer {
	if sourceBPM <= 0 || hostBPM <= 0 {
		return source
	}
	st := stretch.New(audio.SampleRate, source.Len())
	st.SetBPM(sourceBPM, hostBPM)
	outLen := int(float64(source.Len()) / st.Ratio())
	out := audio.NewStereoBuffer(outLen)
	out.SetLen(outLen)
	st.Process(source, out)
	return out
}

func buildPeaks(buf *audio.StereoBuffer) []trackio.PeakPair {
	return downsamplePeaks(buf, overviewPeakCount)
}

func downsamplePeaks(buf *audio.StereoBuffer, buckets int) []trackio.PeakPair {
	n := buf.Len()
	if n == 0 || buckets <= 0 {
		return nil
	}
	peaks := make([]trackio.PeakPair, buckets)
	perBucket := n / buckets
	if perBucket == 0 {
		perBucket = 1
	}
	for b := 0; b < buckets; b++ {
		start := b * perBucket
		end := start + perBucket
		if end > n {
			end = n
		}
		var min, max float32
		for i := start; i < end; i++ {
			f := buf.At(i)
			v := (f.L + f.R) * 0.5
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		peaks[b] = trackio.PeakPair{Min: min, Max: max}
	}
	return peaks
}

func installHook(e *engine.Engine, deckIdx int, stem audio.Stem, data *engine.LinkedStemData) {
	if data == nil || data.Buffer == nil {
		return
	}
	buf, ok := (*data.Buffer).(*audio.StereoBuffer)
	if !ok {
		return
	}
	e.Deck(deckIdx).LinkStem(stem, buf)
}
