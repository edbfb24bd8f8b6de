// Package driver implements the thin wire between a host audio callback
// and the engine: open a device at a negotiated sample rate and buffer
// size, own the callback closure, drain commands then process on every
// tick, and copy the engine's stereo master output into the device's
// channel layout (padding channels beyond 2 with silence).
package driver

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/engine"
)

// Driver is the interface a concrete device backend satisfies, so tests
// can drive the engine with a fake implementation that never touches a
// real device.
type Driver interface {
	Start() error
	Stop() error
	SampleRate() int
	Channels() int
}

// Callback renders one audio block: drains the command queue, runs the
// engine, and writes interleaved output into the device buffer. Shared by
// every concrete Driver implementation so the dispatch/copy logic lives
// in exactly one place.
type Callback struct {
	eng      *engine.Engine
	queue    *engine.CommandQueue
	master   *audio.StereoBuffer
	cue      *audio.StereoBuffer
	channels int
}

// NewCallback builds a callback bound to one engine and command queue,
// with scratch buffers sized to maxBlock frames.
func NewCallback(eng *engine.Engine, queue *engine.CommandQueue, channels, maxBlock int) *Callback {
	return &Callback{
		eng:      eng,
		queue:    queue,
		master:   audio.NewStereoBuffer(maxBlock),
		cue:      audio.NewStereoBuffer(maxBlock),
		channels: channels,
	}
}

// RenderInterleaved drains commands, runs one engine callback for
// nFrames, and writes the master output interleaved into out (length
// nFrames*channels). Channels beyond 2 are filled with silence.
func (c *Callback) RenderInterleaved(out []float32, nFrames int) {
	c.master.SetLen(nFrames)
	c.cue.SetLen(nFrames)

	c.eng.DrainCommands(c.queue)
	c.eng.Process(c.master, c.cue)

	l, r := c.master.Left(), c.master.Right()
	ch := c.channels
	for i := 0; i < nFrames; i++ {
		base := i * ch
		out[base] = l[i]
		if ch > 1 {
			out[base+1] = r[i]
		}
		for k := 2; k < ch; k++ {
			out[base+k] = 0
		}
	}
}

// CueBuffer exposes the most recent cue-bus render, for a second driver
// session monitoring headphones.
func (c *Callback) CueBuffer() *audio.StereoBuffer { return c.cue }
