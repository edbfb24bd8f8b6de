package driver

import (
	"fmt"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// MalgoDriver opens a real output device via miniaudio bindings and drives
// a Callback from its device callback. A second MalgoDriver may be opened
// on a different device for the cue bus; when both share one Engine they
// must serialize access through a Spinlock (see spinlock.go) around each
// callback's critical section.
type MalgoDriver struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	cb       *Callback
	channels int
	rate     int
	lock     *Spinlock
}

// NewMalgoDriver opens the default playback device at the given sample
// rate and channel count, wired to render through cb. If lock is non-nil
// it is held for the duration of each device callback, to serialize
// against a second driver sharing the same engine.
func NewMalgoDriver(cb *Callback, sampleRate, channels int, lock *Spinlock) (*MalgoDriver, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("driver: init context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(channels)
	cfg.SampleRate = uint32(sampleRate)
	cfg.Alsa.NoMMap = 1

	d := &MalgoDriver{ctx: ctx, cb: cb, channels: channels, rate: sampleRate, lock: lock}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			if d.lock != nil {
				d.lock.Lock()
				defer d.lock.Unlock()
			}
			nFrames := int(frameCount)
			samples := asFloat32Slice(out)
			d.cb.RenderInterleaved(samples, nFrames)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, cfg, deviceCallbacks)
	if err != nil {
		ctx.Uninit()
		return nil, fmt.Errorf("driver: init device: %w", err)
	}
	d.device = device
	return d, nil
}

// Start begins device playback.
func (d *MalgoDriver) Start() error {
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("driver: start device: %w", err)
	}
	return nil
}

// Stop halts device playback but leaves the engine alive for
// re-attachment to a different device.
func (d *MalgoDriver) Stop() error {
	if err := d.device.Stop(); err != nil {
		return fmt.Errorf("driver: stop device: %w", err)
	}
	return nil
}

// Close releases the device and context. Call after Stop.
func (d *MalgoDriver) Close() {
	d.device.Uninit()
	_ = d.ctx.Uninit()
}

func (d *MalgoDriver) SampleRate() int { return d.rate }
func (d *MalgoDriver) Channels() int   { return d.channels }

// asFloat32Slice reinterprets a miniaudio byte buffer as a float32 slice
// without copying, matching the f32 sample format requested above. This
// is the one allocation-free way to hand the device's raw buffer to
// RenderInterleaved, which writes samples into it in place.
func asFloat32Slice(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}
