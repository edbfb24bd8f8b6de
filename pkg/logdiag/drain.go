package logdiag

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Drainer reads Records off a Ring and re-emits them through a zerolog
// logger on its own goroutine.
type Drainer struct {
	ring     *Ring
	log      zerolog.Logger
	interval time.Duration
	done     chan struct{}
}

// NewDrainer starts a drain goroutine immediately.
func NewDrainer(ctx context.Context, ring *Ring, log zerolog.Logger, interval time.Duration) *Drainer {
	d := &Drainer{ring: ring, log: log, interval: interval, done: make(chan struct{})}
	go d.run(ctx)
	return d
}

func (d *Drainer) run(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.drainAll()
			return
		case <-ticker.C:
			d.drainAll()
		}
	}
}

func (d *Drainer) drainAll() {
	for {
		rec, ok := d.ring.Pop()
		if !ok {
			if dropped := d.ring.Dropped(); dropped > 0 {
				d.log.Warn().Uint64("dropped", dropped).Msg("diagnostic ring overflow")
			}
			return
		}
		msg := string(rec.Msg[:rec.MsgLen])
		ev := d.log.WithLevel(toZerologLevel(rec.Level))
		ev.Uint64("sample_pos", rec.SamplePos).Uint16("code", rec.Code).Msg(msg)
	}
}

func toZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Wait blocks until the drain goroutine has exited.
func (d *Drainer) Wait() { <-d.done }
