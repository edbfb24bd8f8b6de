package driver

import (
	"testing"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/engine"
)

func TestFakeDriverTickProducesInterleavedSilence(t *testing.T) {
	eng := engine.New(audio.SampleRate, 512)
	queue := engine.NewCommandQueue(16)
	cb := NewCallback(eng, queue, 2, 512)
	fd := NewFakeDriver(cb, audio.SampleRate, 2)

	if err := fd.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	out := fd.Tick(64)
	if len(out) != 64*2 {
		t.Fatalf("len(out) = %d, want %d", len(out), 64*2)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %f, want 0 with no track loaded", i, v)
		}
	}
	if err := fd.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
}

func TestFakeDriverFourChannelPadsRemainingChannels(t *testing.T) {
	eng := engine.New(audio.SampleRate, 512)
	queue := engine.NewCommandQueue(16)
	cb := NewCallback(eng, queue, 4, 512)
	fd := NewFakeDriver(cb, audio.SampleRate, 4)

	out := fd.Tick(8)
	if len(out) != 8*4 {
		t.Fatalf("len(out) = %d, want %d", len(out), 8*4)
	}
	for i := 0; i < 8; i++ {
		if out[i*4+2] != 0 || out[i*4+3] != 0 {
			t.Fatalf("frame %d channels 2-3 = %f, %f, want silence", i, out[i*4+2], out[i*4+3])
		}
	}
}

func TestFakeDriverDrainsQueuedCommandsBeforeRendering(t *testing.T) {
	eng := engine.New(audio.SampleRate, 512)
	queue := engine.NewCommandQueue(16)
	cb := NewCallback(eng, queue, 2, 512)
	fd := NewFakeDriver(cb, audio.SampleRate, 2)

	queue.Push(engine.Command{Kind: engine.CmdSetVolume, Deck: 0, Value: 0.5})
	fd.Tick(16)

	if v := eng.Deck(0); v == nil {
		t.Fatal("expected deck 0 to exist")
	}
}

func TestSpinlockSerializesAccess(t *testing.T) {
	var s Spinlock
	s.Lock()
	done := make(chan struct{})
	go func() {
		s.Lock()
		s.Unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Lock() should block while held")
	default:
	}
	s.Unlock()
	<-done
}
