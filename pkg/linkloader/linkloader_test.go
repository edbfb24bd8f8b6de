package linkloader

import (
	"testing"

	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/engine"
	"github.com/nullstage/quaddeck/pkg/trackio"
)

func rampedBuffer(n int) *audio.StereoBuffer {
	b := audio.NewStereoBuffer(n)
	b.SetLen(n)
	for i := 0; i < n; i++ {
		b.Set(i, audio.Frame{L: float32(i + 1), R: float32(i + 1)})
	}
	return b
}

func TestAlignToHostDropNoMarkerIsUnshifted(t *testing.T) {
	src := rampedBuffer(100)
	out := alignToHostDrop(src, trackio.TrackMetadata{}, 50)
	if out != src {
		t.Fatal("no drop marker should return the source buffer unchanged")
	}
}

func TestAlignToHostDropPadsLeadingSilenceWhenSourceDropIsEarlier(t *testing.T) {
	src := rampedBuffer(100)
	sourceDrop := uint64(10)
	meta := trackio.TrackMetadata{DropMarkerSample: &sourceDrop}

	out := alignToHostDrop(src, meta, 30) // host drop is 20 samples later
	if out.At(30).L != src.At(10).L {
		t.Fatalf("expected sample at host drop 30 to match source drop sample: got %f, want %f", out.At(30).L, src.At(10).L)
	}
	if out.At(0).L != 0 {
		t.Fatalf("expected leading silence before the shift: got %f", out.At(0).L)
	}
}

func TestAlignToHostDropTrimsExcessWhenSourceDropIsLater(t *testing.T) {
	src := rampedBuffer(100)
	sourceDrop := uint64(30)
	meta := trackio.TrackMetadata{DropMarkerSample: &sourceDrop}

	out := alignToHostDrop(src, meta, 10) // host drop is 20 samples earlier
	if out.At(10).L != src.At(30).L {
		t.Fatalf("expected sample at host drop 10 to match source drop sample: got %f, want %f", out.At(10).L, src.At(30).L)
	}
}

func TestDownsamplePeaksCapturesMinMaxPerBucket(t *testing.T) {
	buf := audio.NewStereoBuffer(10)
	buf.SetLen(10)
	vals := []float32{1, -1, 2, -2, 0, 0, 0, 0, 0, 0}
	for i, v := range vals {
		buf.Set(i, audio.Frame{L: v, R: v})
	}

	peaks := downsamplePeaks(buf, 2)
	if len(peaks) != 2 {
		t.Fatalf("len(peaks) = %d, want 2", len(peaks))
	}
	if peaks[0].Min != -2 || peaks[0].Max != 2 {
		t.Fatalf("bucket 0 = %+v, want min -2 max 2", peaks[0])
	}
}

func TestInstallHookAssignsLinkedBuffer(t *testing.T) {
	eng := engine.New(audio.SampleRate, 512)
	buf := rampedBuffer(16)
	var handle any = buf
	data := &engine.LinkedStemData{Buffer: &handle}

	installHook(eng, 0, audio.StemVocals, data)

	if eng.Deck(0) == nil {
		t.Fatal("expected deck 0 to exist")
	}
}

func TestInstallHookIgnoresNilPayload(t *testing.T) {
	eng := engine.New(audio.SampleRate, 512)
	installHook(eng, 0, audio.StemVocals, nil)
}
