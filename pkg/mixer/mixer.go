package mixer

import (
	"github.com/nullstage/quaddeck/pkg/audio"
	"github.com/nullstage/quaddeck/pkg/dsp/mix"
)

// Mixer sums the four decks' output buffers into a master bus and a cue
// bus. Per-channel processing (trim/EQ/filter) is independent across
// channels; summation into master/cue is strictly sequential in fixed
// deck order to avoid introducing non-determinism.
type Mixer struct {
	channels [audio.NumDecks]*Channel

	masterVolume float32
	cueMix       float64 // 0 = cue only, 1 = master only
	cueVolume    float32

	clip *clipper
	lim  *limiter

	cueL, cueR []float32

	// Scratch reused every callback so the fixed-order summation below
	// never allocates: bufL/bufR hold slice headers pointing at this
	// callback's deck buffers, volGains/cueGains hold per-deck weights.
	bufL, bufR         [][]float32
	volGains, cueGains [audio.NumDecks]float32
}

// New builds a mixer with flat channels, unity master volume, cue-only
// monitoring, and 0.8 cue volume, matching the reference defaults.
func New(sampleRate float64, maxBlock int) *Mixer {
	m := &Mixer{
		masterVolume: 1.0,
		cueMix:       0.0,
		cueVolume:    0.8,
		clip:         newClipper(),
		lim:          newLimiter(sampleRate),
		cueL:         make([]float32, maxBlock),
		cueR:         make([]float32, maxBlock),
		bufL:         make([][]float32, audio.NumDecks),
		bufR:         make([][]float32, audio.NumDecks),
	}
	for i := range m.channels {
		m.channels[i] = NewChannel(sampleRate)
	}
	return m
}

// Channel returns one deck's channel strip for command-driven edits.
func (m *Mixer) Channel(deck int) *Channel { return m.channels[deck] }

// SetMasterVolume clamps to [0,1].
func (m *Mixer) SetMasterVolume(v float32) { m.masterVolume = clampF32(v, 0, 1) }

// SetCueMix clamps to [0,1]: 0 routes the cue bus only, 1 routes master
// only.
func (m *Mixer) SetCueMix(v float64) { m.cueMix = clamp01(v) }

// SetCueVolume clamps to [0,1].
func (m *Mixer) SetCueVolume(v float32) { m.cueVolume = clampF32(v, 0, 1) }

// ClipDetected reports whether the safety clipper engaged recently.
func (m *Mixer) ClipDetected() bool { return m.clip.ClipDetected() }

// Process runs the full mixer pipeline: per-channel trim/EQ/filter, fixed
// order summation into master (post-fader) and cue (pre-fader, only when
// a channel's cue flag is set), master volume, safety clipper, lookahead
// limiter, then the cue/master linear blend.
func (m *Mixer) Process(deckBuffers [audio.NumDecks]*audio.StereoBuffer, masterOut, cueOut *audio.StereoBuffer) {
	n := masterOut.Len()

	cueL := m.cueL[:n]
	cueR := m.cueR[:n]

	for d := 0; d < audio.NumDecks; d++ {
		m.channels[d].Process(deckBuffers[d])
		ch := m.channels[d]
		m.bufL[d] = deckBuffers[d].Left()
		m.bufR[d] = deckBuffers[d].Right()
		m.volGains[d] = ch.Volume()
		if ch.CueEnabled() {
			m.cueGains[d] = 1
		} else {
			m.cueGains[d] = 0
		}
	}

	mL, mR := masterOut.Left(), masterOut.Right()
	mix.SumWeighted(m.bufL, m.volGains[:], mL)
	mix.SumWeighted(m.bufR, m.volGains[:], mR)
	mix.SumWeighted(m.bufL, m.cueGains[:], cueL)
	mix.SumWeighted(m.bufR, m.cueGains[:], cueR)

	masterOut.Scale(m.masterVolume)
	m.clip.process(mL, mR)
	m.lim.process(mL, mR)

	cOutL, cOutR := cueOut.Left(), cueOut.Right()
	cueMix := float32(m.cueMix)
	for i := 0; i < n; i++ {
		cOutL[i] = mix.CrossfadeLinear(cueL[i], mL[i], cueMix) * m.cueVolume
		cOutR[i] = mix.CrossfadeLinear(cueR[i], mR[i], cueMix) * m.cueVolume
	}
}

// Reset flushes every channel strip's filter state.
func (m *Mixer) Reset() {
	for _, ch := range m.channels {
		ch.Reset()
	}
	m.lim.reset()
}
