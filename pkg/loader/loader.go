// Package loader decodes prepared stem files off the audio thread and
// hands finished tracks to the engine via the existing command queue, so
// disk I/O and WAV parsing never happen on a real-time callback.
package loader

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/analysis"
	"github.com/nullstage/quaddeck/pkg/engine"
	"github.com/nullstage/quaddeck/pkg/reclaim"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

// Request asks the loader to decode a prepared stem file and install it on
// a deck once ready.
type Request struct {
	Deck int
	Path string
}

// Loader runs a bounded pool of background decode workers. Requests are
// accepted on a channel buffered to 2*maxWorkers and fanned out across at most
// maxWorkers goroutines via errgroup, matching the bounded worker pool the
// mixer's doc comments reserve thread L for.
type Loader struct {
	queue    *engine.CommandQueue
	graveyard *reclaim.Graveyard
	log      zerolog.Logger
	requests chan Request
}

// New starts a Loader with maxWorkers background decode goroutines,
// pushing LoadTrack/UnloadTrack-adjacent commands onto queue as tracks
// finish preparing. Released old tracks are routed to graveyard so the
// audio thread never frees one inline.
func New(ctx context.Context, queue *engine.CommandQueue, graveyard *reclaim.Graveyard, log zerolog.Logger, maxWorkers int) *Loader {
	l := &Loader{
		queue:     queue,
		graveyard: graveyard,
		log:       log,
		requests:  make(chan Request, maxWorkers*2),
	}
	l.run(ctx, maxWorkers)
	return l
}

func (l *Loader) run(ctx context.Context, maxWorkers int) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < maxWorkers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case req, ok := <-l.requests:
					if !ok {
						return nil
					}
					l.handle(req)
				}
			}
		})
	}
	go func() {
		<-ctx.Done()
		close(l.requests)
		if err := g.Wait(); err != nil {
			l.log.Error().Err(err).Msg("loader: worker pool exited with error")
		}
	}()
}

// Submit enqueues a load request. Non-blocking best-effort: if every
// worker is backed up and the buffered channel is full, the request is
// dropped and logged rather than stalling the caller.
func (l *Loader) Submit(req Request) {
	select {
	case l.requests <- req:
	default:
		l.log.Warn().Int("deck", req.Deck).Str("path", req.Path).Msg("loader: request dropped, queue full")
	}
}

func (l *Loader) handle(req Request) {
	stems, meta, err := trackio.ReadPreparedWAV(req.Path)
	if err != nil {
		l.log.Error().Err(err).Str("path", req.Path).Msg("loader: decode failed")
		return
	}

	if meta.IntegratedLoudness == nil {
		if lufs, ok := measureIntegratedLoudness(stems); ok {
			meta.IntegratedLoudness = &lufs
		}
	}

	pt := trackio.NewPreparedTrack(stems, meta, func(old *trackio.PreparedTrack) {
		if !l.graveyard.Post(old) {
			l.log.Warn().Msg("loader: graveyard full, track handle dropped")
		}
	})

	cmd := engine.Command{Kind: engine.CmdLoadTrack, Deck: req.Deck, Track: pt}
	if !l.queue.Push(cmd) {
		l.log.Error().Str("path", req.Path).Msg("loader: command queue full, prepared track discarded")
		pt.Release()
		return
	}
	l.log.Info().Int("deck", req.Deck).Str("path", req.Path).Float64("bpm", meta.BPMEffective).Msg("loader: track ready")
}

// measureIntegratedLoudness runs the stem-summed downmix through a
// BS.1770 LUFS meter once at load time, so decks can later report a
// loudness figure without re-scanning the whole track. Returns false if
// the track has no audio to measure.
func measureIntegratedLoudness(stems *audio.StemBuffers) (float32, bool) {
	n := stems.Stems[0].Len()
	if n == 0 {
		return 0, false
	}
	meter := analysis.NewLUFSMeter(float64(audio.SampleRate), 2)
	interleaved := make([]float64, n*2)
	for i := 0; i < n; i++ {
		var l, r float32
		for s := 0; s < audio.NumStems; s++ {
			f := stems.Stems[s].At(i)
			l += f.L
			r += f.R
		}
		interleaved[i*2] = float64(l)
		interleaved[i*2+1] = float64(r)
	}
	meter.Process(interleaved)
	lufs := meter.GetIntegratedLUFS()
	if lufs == math.Inf(-1) {
		return 0, false
	}
	return float32(lufs), true
}
