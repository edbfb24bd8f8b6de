package stretch

import (
	"math"
	"testing"

	"github.com/nullstage/quaddeck/pkg/audio"
)

func rampBuffer(n int) *audio.StereoBuffer {
	b := audio.NewStereoBuffer(n)
	b.SetLen(n)
	l, r := b.Left(), b.Right()
	for i := range l {
		l[i] = float32(i)
		r[i] = float32(i)
	}
	return b
}

func TestUnityRatioIsStraightCopy(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	s.SetBPM(128, 128)
	if s.Ratio() != 1.0 {
		t.Fatalf("Ratio() = %f, want 1.0", s.Ratio())
	}

	in := rampBuffer(256)
	out := audio.NewStereoBuffer(256)
	out.SetLen(256)
	s.Process(in, out)

	for i := 0; i < 256; i++ {
		if out.At(i).L != in.At(i).L {
			t.Fatalf("sample %d: got %f, want %f", i, out.At(i).L, in.At(i).L)
		}
	}
}

func TestInputFramesNeededScalesWithRatio(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	s.SetBPM(140, 128) // ratio > 1, stretching down in time needs more input
	want := int(math.Round(512 * s.Ratio()))
	if got := s.InputFramesNeeded(512); got != want {
		t.Fatalf("InputFramesNeeded(512) = %d, want %d", got, want)
	}
}

func TestSetBPMZeroSourceFallsBackToUnity(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	s.SetBPM(0, 128)
	if s.Ratio() != 1.0 {
		t.Fatalf("Ratio() = %f, want 1.0 fallback for invalid source BPM", s.Ratio())
	}
}

func TestProcessProducesExactlyRequestedOutputLength(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	s.SetBPM(100, 128)

	in := rampBuffer(512)
	out := audio.NewStereoBuffer(1024)
	out.SetLen(300)
	s.Process(in, out)

	if out.Len() != 300 {
		t.Fatalf("output length = %d, want 300", out.Len())
	}
}

func TestResetFlushesReadCursor(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	s.SetBPM(150, 128)

	in := rampBuffer(512)
	out := audio.NewStereoBuffer(1024)
	out.SetLen(100)
	s.Process(in, out)

	if s.readCursor == 0 {
		t.Fatal("expected read cursor to advance after Process")
	}
	s.Reset()
	if s.readCursor != 0 {
		t.Fatalf("readCursor after Reset = %f, want 0", s.readCursor)
	}
}

func TestTotalLatencyIsConstant(t *testing.T) {
	s := New(audio.SampleRate, 1024)
	before := s.TotalLatency()
	s.SetBPM(90, 140)
	if s.TotalLatency() != before {
		t.Fatalf("TotalLatency() changed after SetBPM: %d vs %d", s.TotalLatency(), before)
	}
}
