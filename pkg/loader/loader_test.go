package loader

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/engine"
	"github.com/nullstage/quaddeck/pkg/reclaim"
)

func TestMeasureIntegratedLoudnessOnSilenceReturnsNotOK(t *testing.T) {
	stems := audio.NewStemBuffers(1000)
	for _, s := range stems.Stems {
		s.SetLen(1000)
	}
	_, ok := measureIntegratedLoudness(stems)
	if ok {
		t.Fatal("silent audio has no measurable integrated loudness; expected ok=false")
	}
}

func TestMeasureIntegratedLoudnessOnToneReturnsOK(t *testing.T) {
	stems := audio.NewStemBuffers(audio.SampleRate)
	for _, s := range stems.Stems {
		s.SetLen(audio.SampleRate)
		l, r := s.Left(), s.Right()
		for i := range l {
			l[i], r[i] = 0.3, 0.3
		}
	}
	lufs, ok := measureIntegratedLoudness(stems)
	if !ok {
		t.Fatal("expected a measurable integrated loudness for a steady tone")
	}
	if lufs >= 0 {
		t.Fatalf("lufs = %f, expected a negative LUFS figure", lufs)
	}
}

func TestSubmitDropsWhenQueueIsFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := engine.NewCommandQueue(4)
	graveyard := reclaim.New(4)
	log := zerolog.Nop()

	l := New(ctx, queue, graveyard, log, 1)
	for i := 0; i < 10; i++ {
		l.Submit(Request{Deck: 0, Path: "/nonexistent"})
	}
	// Every request targets a nonexistent file and will fail to decode
	// quickly; this just exercises the non-blocking submit path without
	// asserting on worker completion timing.
	time.Sleep(10 * time.Millisecond)
}
