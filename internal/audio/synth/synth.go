// Package synth plays game cues through the system speaker using
// synthesised tones, so the game ships without sound assets.
package synth

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/splitshot/internal/audio"
)

const sampleRate = beep.SampleRate(44100)

// tone describes a short cue as a sequence of notes.
type tone struct {
	freqs []float64
	note  time.Duration
}

var cueTones = map[audio.Cue]tone{
	audio.CueTier1Hit: {freqs: []float64{330}, note: 60 * time.Millisecond},
	audio.CueTier2Hit: {freqs: []float64{440}, note: 55 * time.Millisecond},
	audio.CueTier3Hit: {freqs: []float64{587}, note: 50 * time.Millisecond},
	audio.CueFinalHit: {freqs: []float64{784, 1175}, note: 45 * time.Millisecond},
}

// Player mixes cue tones into a single speaker stream.
type Player struct {
	mu         sync.Mutex
	mixer      *beep.Mixer
	background *beep.Ctrl
	logger     *log.Logger
	closed     bool
}

// New opens the speaker. Callers should treat an error as "run silent".
func New(logger *log.Logger) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := &Player{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
	speaker.Play(p.mixer)
	return p, nil
}

// Play implements audio.Player. Unknown cues are logged and dropped.
func (p *Player) Play(c audio.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if c == audio.CueBackgroundLoop {
		p.startBackground()
		return
	}

	t, ok := cueTones[c]
	if !ok {
		p.logger.Warn("no tone for cue", "cue", c)
		return
	}
	streamer, err := t.streamer()
	if err != nil {
		p.logger.Warn("build cue tone", "cue", c, "err", err)
		return
	}

	speaker.Lock()
	p.mixer.Add(&effects.Gain{Streamer: streamer, Gain: -0.75})
	speaker.Unlock()
}

// startBackground starts the loop once; later requests are ignored.
func (p *Player) startBackground() {
	if p.background != nil {
		return
	}
	p.background = &beep.Ctrl{Streamer: newPulseGenerator(sampleRate)}
	speaker.Lock()
	p.mixer.Add(p.background)
	speaker.Unlock()
}

// Close silences everything and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	speaker.Lock()
	if p.background != nil {
		p.background.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

func (t tone) streamer() (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(t.freqs))
	for _, f := range t.freqs {
		sine, err := generators.SineTone(sampleRate, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(t.note), sine))
	}
	return beep.Seq(parts...), nil
}

// pulseGenerator is an endless low two-note pulse used as background music.
type pulseGenerator struct {
	sr  beep.SampleRate
	pos int
}

func newPulseGenerator(sr beep.SampleRate) *pulseGenerator {
	return &pulseGenerator{sr: sr}
}

// Stream implements beep.Streamer.
func (g *pulseGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	beat := g.sr.N(400 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		step := (g.pos / beat) % 4
		freq := 110.0
		if step == 2 {
			freq = 82.41
		}
		// Decaying envelope within each beat
		env := math.Exp(-4 * float64(g.pos%beat) / float64(beat))
		v := 0.08 * env * math.Sin(2*math.Pi*freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *pulseGenerator) Err() error {
	return nil
}

var _ audio.Player = (*Player)(nil)
