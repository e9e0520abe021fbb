// Package audio defines the cues the game emits and the player interface
// hosts implement to make them audible.
package audio

import (
	"fmt"
	"sync"
)

// Cue is a named audio trigger.
type Cue int

const (
	CueTier1Hit       Cue = iota + 1 // Large enemy destroyed
	CueTier2Hit                      // Medium enemy destroyed
	CueTier3Hit                      // Small enemy destroyed
	CueFinalHit                      // Tiny enemy destroyed
	CueBackgroundLoop                // Round started
)

// String implements fmt.Stringer.
func (c Cue) String() string {
	switch c {
	case CueTier1Hit:
		return "tier-1-hit"
	case CueTier2Hit:
		return "tier-2-hit"
	case CueTier3Hit:
		return "tier-3-hit"
	case CueFinalHit:
		return "final-hit"
	case CueBackgroundLoop:
		return "background-loop-start"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// Player plays cues. Play must not block the game loop; failures are the
// player's problem and never reach the caller.
type Player interface {
	Play(c Cue)
}

// Nop discards every cue.
type Nop struct{}

// Play implements Player.
func (Nop) Play(Cue) {}

// Recorder keeps every cue it is asked to play, in order.
// Hosts that forward cues elsewhere (e.g. to a browser) drain it each frame.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// Play implements Player.
func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, c)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Cue, len(r.cues))
	copy(out, r.cues)
	return out
}

// Drain returns the recorded cues and forgets them.
func (r *Recorder) Drain() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}

var (
	_ Player = Nop{}
	_ Player = (*Recorder)(nil)
)
