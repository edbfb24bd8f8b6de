package reclaim

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestGraveyardPostPop(t *testing.T) {
	g := New(4)

	for i := 0; i < 4; i++ {
		if !g.Post(i) {
			t.Fatalf("post %d should have succeeded into empty ring", i)
		}
	}
	if g.Post(99) {
		t.Fatal("post into a full ring should fail")
	}
	if n := g.Drain(); n != 4 {
		t.Fatalf("Drain() = %d, want 4", n)
	}
	if n := g.Drain(); n != 0 {
		t.Fatalf("Drain() on empty ring = %d, want 0", n)
	}
}

func TestGraveyardCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	g := New(5)
	if len(g.slots) != 8 {
		t.Fatalf("capacity rounded to %d, want 8", len(g.slots))
	}
}

func TestGraveyardDropCounter(t *testing.T) {
	g := New(2)
	g.Post(1)
	g.Post(2)
	if g.Post(3) {
		t.Fatal("expected post to fail once full")
	}
	if d := g.Dropped(); d != 1 {
		t.Fatalf("Dropped() = %d, want 1", d)
	}
}

func TestReaperDrainsOnInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(16)
	g.Post("x")
	g.Post("y")

	ctx, cancel := context.WithCancel(context.Background())
	r := NewReaper(ctx, g, 5*time.Millisecond)

	deadline := time.After(time.Second)
	for g.readPos.Load() != g.writePos.Load() {
		select {
		case <-deadline:
			cancel()
			r.Wait()
			t.Fatal("reaper never drained the graveyard")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	r.Wait()
}
