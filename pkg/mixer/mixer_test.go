package mixer

import (
	"math"
	"testing"

	"github.com/nullstage/quaddeck/pkg/audio"
)

func constBuffer(n int, l, r float32) *audio.StereoBuffer {
	b := audio.NewStereoBuffer(n)
	b.SetLen(n)
	left, right := b.Left(), b.Right()
	for i := range left {
		left[i] = l
		right[i] = r
	}
	return b
}

func TestMixerSumsOnlyVolumeIntoMaster(t *testing.T) {
	m := New(audio.SampleRate, 64)
	var decks [audio.NumDecks]*audio.StereoBuffer
	for i := range decks {
		decks[i] = constBuffer(32, 0.1, 0.1)
		m.Channel(i).SetVolume(1.0)
	}
	m.Channel(0).SetVolume(0) // silence deck 0's contribution

	master := audio.NewStereoBuffer(64)
	cue := audio.NewStereoBuffer(64)
	master.SetLen(32)
	cue.SetLen(32)

	// The master limiter delays its output by its 5ms (240-sample)
	// lookahead, so run enough blocks for the delay line to fill.
	for i := 0; i < 20; i++ {
		m.Process(decks, master, cue)
	}

	// 3 decks at 0.1 volume summed = 0.3 (masterVolume defaults to 1.0,
	// clipper/limiter are transparent well under their thresholds).
	got := master.At(0).L
	if math.Abs(float64(got-0.3)) > 0.01 {
		t.Fatalf("master L = %f, want ~0.3", got)
	}
}

func TestMixerCueBusOnlyRoutesEnabledChannels(t *testing.T) {
	m := New(audio.SampleRate, 64)
	var decks [audio.NumDecks]*audio.StereoBuffer
	for i := range decks {
		decks[i] = constBuffer(16, 0.2, 0.2)
	}
	m.Channel(0).SetCueEnabled(true)
	m.SetCueMix(0) // cue bus only, no master blend
	m.SetCueVolume(1.0)

	master := audio.NewStereoBuffer(64)
	cue := audio.NewStereoBuffer(64)
	master.SetLen(16)
	cue.SetLen(16)

	m.Process(decks, master, cue)

	got := cue.At(0).L
	if math.Abs(float64(got-0.2)) > 0.01 {
		t.Fatalf("cue bus L = %f, want ~0.2 (only deck 0 routed)", got)
	}
}

func TestMixerMasterVolumeScalesOutput(t *testing.T) {
	m := New(audio.SampleRate, 64)
	var decks [audio.NumDecks]*audio.StereoBuffer
	decks[0] = constBuffer(16, 0.5, 0.5)
	for i := 1; i < audio.NumDecks; i++ {
		decks[i] = constBuffer(16, 0, 0)
	}
	m.Channel(0).SetVolume(1.0)
	m.SetMasterVolume(0.5)

	master := audio.NewStereoBuffer(64)
	cue := audio.NewStereoBuffer(64)
	master.SetLen(16)
	cue.SetLen(16)

	// Run past the master limiter's 240-sample lookahead delay.
	for i := 0; i < 20; i++ {
		m.Process(decks, master, cue)
	}

	got := master.At(0).L
	if math.Abs(float64(got-0.25)) > 0.01 {
		t.Fatalf("master L = %f, want ~0.25 (0.5 channel * 0.5 master)", got)
	}
}

func TestMixerSetMasterVolumeClamps(t *testing.T) {
	m := New(audio.SampleRate, 64)
	m.SetMasterVolume(5)
	if m.masterVolume != 1 {
		t.Fatalf("master volume clamp high = %f, want 1", m.masterVolume)
	}
	m.SetMasterVolume(-1)
	if m.masterVolume != 0 {
		t.Fatalf("master volume clamp low = %f, want 0", m.masterVolume)
	}
}

func TestChannelPassthroughAtFlatEQLeavesSignalUnchanged(t *testing.T) {
	c := NewChannel(audio.SampleRate)
	buf := constBuffer(64, 0.3, -0.3)
	c.Process(buf)

	for i := 0; i < buf.Len(); i++ {
		f := buf.At(i)
		if math.Abs(float64(f.L-0.3)) > 1e-4 || math.Abs(float64(f.R+0.3)) > 1e-4 {
			t.Fatalf("flat channel altered sample %d: %+v", i, f)
		}
	}
}

func TestChannelTrimDBRoundTrips(t *testing.T) {
	c := NewChannel(audio.SampleRate)
	c.SetTrimDB(6)
	if math.Abs(c.TrimDB()-6) > 0.01 {
		t.Fatalf("TrimDB() = %f, want ~6", c.TrimDB())
	}
	c.SetTrimDB(100)
	if math.Abs(c.TrimDB()-12) > 0.01 {
		t.Fatalf("TrimDB() clamp high = %f, want 12", c.TrimDB())
	}
}
