package latency

import (
	"testing"

	"github.com/nullstage/quaddeck/pkg/audio"
)

func impulseBuffer(n, at int) *audio.StereoBuffer {
	b := audio.NewStereoBuffer(n)
	b.SetLen(n)
	l, r := b.Left(), b.Right()
	l[at] = 1
	r[at] = 1
	return b
}

func findImpulse(b *audio.StereoBuffer) int {
	l := b.Left()
	for i, v := range l {
		if v != 0 {
			return i
		}
	}
	return -1
}

func TestGlobalLatencyTracksMaximum(t *testing.T) {
	c := NewCompensator()
	c.SetStemLatency(0, 0, 100)
	if c.GlobalLatency() != 100 {
		t.Fatalf("GlobalLatency() = %d, want 100", c.GlobalLatency())
	}
	c.SetStemLatency(1, 2, 500)
	if c.GlobalLatency() != 500 {
		t.Fatalf("GlobalLatency() = %d, want 500", c.GlobalLatency())
	}
	c.SetStemLatency(1, 2, 50)
	if c.GlobalLatency() != 100 {
		t.Fatalf("GlobalLatency() after lowering the max = %d, want 100 (next highest)", c.GlobalLatency())
	}
}

func TestProcessDelaysLowLatencyStemToMatchCeiling(t *testing.T) {
	c := NewCompensator()
	c.SetStemLatency(0, 0, 0)   // this stem's own chain adds no latency
	c.SetStemLatency(0, 1, 200) // a sibling stem's chain adds 200 samples

	buf := impulseBuffer(1000, 10)
	c.Process(0, 0, buf)

	pos := findImpulse(buf)
	if pos != 10+200 {
		t.Fatalf("impulse shifted to %d, want %d (delayed by the 200-sample ceiling)", pos, 10+200)
	}
}

func TestProcessAtCeilingIsUndelayed(t *testing.T) {
	c := NewCompensator()
	c.SetStemLatency(0, 0, 300) // this stem already has the worst-case latency

	buf := impulseBuffer(1000, 10)
	c.Process(0, 0, buf)

	if pos := findImpulse(buf); pos != 10 {
		t.Fatalf("impulse shifted to %d, want 10 (no additional delay needed)", pos)
	}
}

func TestClearDeckResetsStemLatencyAndRing(t *testing.T) {
	c := NewCompensator()
	c.SetStemLatency(0, 0, 300)
	c.SetStemLatency(1, 0, 100)

	c.ClearDeck(0)
	if c.stemLatency[0][0] != 0 {
		t.Fatalf("deck 0 stem latency not cleared: %d", c.stemLatency[0][0])
	}
	if c.GlobalLatency() != 100 {
		t.Fatalf("GlobalLatency() after clearing deck 0 = %d, want 100 (deck 1's)", c.GlobalLatency())
	}
}

func TestClearAllResetsGlobalLatency(t *testing.T) {
	c := NewCompensator()
	c.SetStemLatency(0, 0, 300)
	c.ClearAll()
	if c.GlobalLatency() != 0 {
		t.Fatalf("GlobalLatency() after ClearAll = %d, want 0", c.GlobalLatency())
	}
}
