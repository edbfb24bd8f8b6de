package logdiag

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func TestDrainerEmitsPostedRecords(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	ring := NewRing(16)
	ring.Post(42, LevelWarn, 3, "xrun")

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDrainer(ctx, ring, log, 5*time.Millisecond)

	deadline := time.After(time.Second)
	for buf.Len() == 0 {
		select {
		case <-deadline:
			cancel()
			d.Wait()
			t.Fatal("drainer never emitted the posted record")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	d.Wait()

	if !strings.Contains(buf.String(), "xrun") {
		t.Fatalf("log output missing message: %s", buf.String())
	}
}
