package audio

import (
	"slices"
	"testing"
)

func TestRecorderDrain(t *testing.T) {
	var r Recorder
	r.Play(CueBackgroundLoop)
	r.Play(CueTier1Hit)

	if got := r.Cues(); !slices.Equal(got, []Cue{CueBackgroundLoop, CueTier1Hit}) {
		t.Fatalf("Cues = %v", got)
	}
	if got := r.Drain(); len(got) != 2 {
		t.Fatalf("Drain returned %d cues, want 2", len(got))
	}
	if got := r.Drain(); len(got) != 0 {
		t.Fatalf("second Drain returned %v, want none", got)
	}
}

func TestCueNames(t *testing.T) {
	want := map[Cue]string{
		CueTier1Hit:       "tier-1-hit",
		CueTier2Hit:       "tier-2-hit",
		CueTier3Hit:       "tier-3-hit",
		CueFinalHit:       "final-hit",
		CueBackgroundLoop: "background-loop-start",
	}
	for c, name := range want {
		if c.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), name)
		}
	}
	if Cue(99).String() != "Cue(99)" {
		t.Errorf("unknown cue string = %q", Cue(99).String())
	}
}
