package driver

// FakeDriver drives a Callback synchronously without opening any real
// device, for tests that need to pump audio callbacks deterministically.
type FakeDriver struct {
	cb       *Callback
	channels int
	rate     int
	started  bool
}

// NewFakeDriver builds a test driver around an existing Callback.
func NewFakeDriver(cb *Callback, sampleRate, channels int) *FakeDriver {
	return &FakeDriver{cb: cb, channels: channels, rate: sampleRate}
}

func (f *FakeDriver) Start() error { f.started = true; return nil }
func (f *FakeDriver) Stop() error  { f.started = false; return nil }
func (f *FakeDriver) SampleRate() int { return f.rate }
func (f *FakeDriver) Channels() int   { return f.channels }

// Tick renders one block of nFrames synchronously and returns the
// interleaved output, for use directly in tests.
func (f *FakeDriver) Tick(nFrames int) []float32 {
	out := make([]float32, nFrames*f.channels)
	f.cb.RenderInterleaved(out, nFrames)
	return out
}
