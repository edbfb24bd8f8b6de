package effects

import "testing"

func TestFilterEffectDefaultIsFullyOpen(t *testing.T) {
	f := NewFilterEffect(48000)
	if f.GetParam(0) != 1.0 {
		t.Fatalf("default cutoff = %f, want 1.0 (fully open)", f.GetParam(0))
	}
}

func TestFilterEffectBypassSkipsProcessing(t *testing.T) {
	f := NewFilterEffect(48000)
	f.SetBypass(true)
	if !f.IsBypassed() {
		t.Fatal("expected IsBypassed() true after SetBypass(true)")
	}

	buf := silentBuffer(16)
	l := buf.Left()
	for i := range l {
		l[i] = 1
	}
	f.Process(buf)
	for i, v := range l {
		if v != 1 {
			t.Fatalf("bypassed filter modified sample %d: %f", i, v)
		}
	}
}

func TestFilterEffectSetParamClamps(t *testing.T) {
	f := NewFilterEffect(48000)
	f.SetParam(0, 2.0)
	if f.GetParam(0) != 1.0 {
		t.Fatalf("cutoff clamp high = %f, want 1.0", f.GetParam(0))
	}
	f.SetParam(0, -1.0)
	if f.GetParam(0) != 0.0 {
		t.Fatalf("cutoff clamp low = %f, want 0.0", f.GetParam(0))
	}
}

func TestFilterEffectUnknownParamIndexIsNoop(t *testing.T) {
	f := NewFilterEffect(48000)
	before := f.GetParam(0)
	f.SetParam(99, 0.5)
	if f.GetParam(0) != before {
		t.Fatal("setting an unknown param index should not alter existing state")
	}
	if f.GetParam(99) != 0 {
		t.Fatalf("GetParam on unknown index = %f, want 0", f.GetParam(99))
	}
}
