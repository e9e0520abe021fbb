package game

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/input"
)

const frame = time.Second / 60

// recState logs every call made on it.
type recState struct {
	name   string
	calls  *[]string
	onTick func()
}

func (s *recState) Enter() { *s.calls = append(*s.calls, s.name+".enter") }
func (s *recState) Exit() { *s.calls = append(*s.calls, s.name+".exit") }
func (s *recState) HandleInput(input.Event) { *s.calls = append(*s.calls, s.name+".input") }
func (s *recState) Tick(time.Duration) error {
	*s.calls = append(*s.calls, s.name+".tick")
	if s.onTick != nil {
		s.onTick()
	}
	return nil
}

func TestMachineDefersSwitch(t *testing.T) {
	var calls []string
	m := NewMachine(nil)
	b := &recState{name: "b", calls: &calls}
	a := &recState{name: "a", calls: &calls}
	a.onTick = func() { m.Switch(b) }

	m.Start(a)
	if err := m.Tick(frame); err != nil {
		t.Fatal(err)
	}
	m.HandleInput(input.Press(input.KeyUp))
	m.Stop()

	want := []string{"a.enter", "a.tick", "a.exit", "b.enter", "b.input", "b.exit"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if m.Current() != nil {
		t.Error("machine still has a state after Stop")
	}
}

func TestMachineWithoutStateIsInert(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Tick(frame); err != nil {
		t.Fatal(err)
	}
	m.HandleInput(input.Press(input.KeyUp))
}

// doomedConfig spawns one enemy on top of the ship so the first tick ends the round.
func doomedConfig() *config.Config {
	cfg := config.Default()
	cfg.StartingEnemyCount = 1
	cfg.SpawnSafeRadius = 0
	cfg.LeftLimit, cfg.RightLimit = 399, 401
	cfg.BottomLimit, cfg.TopLimit = 299, 301
	return &cfg
}

func newTestGame(t *testing.T, cfg *config.Config) (*Game, *audio.Recorder) {
	t.Helper()
	rec := &audio.Recorder{}
	g, err := New(Options{Config: cfg, Audio: rec, Rand: rand.New(rand.NewSource(7))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, rec
}

func TestNewStartsPlaying(t *testing.T) {
	cfg := config.Default()
	g, rec := newTestGame(t, &cfg)

	if _, ok := g.State().(*Playing); !ok {
		t.Fatalf("state = %T, want *Playing", g.State())
	}
	if g.Rounds() != 1 {
		t.Errorf("rounds = %d, want 1", g.Rounds())
	}
	if got := rec.Cues(); !slices.Equal(got, []audio.Cue{audio.CueBackgroundLoop}) {
		t.Errorf("cues = %v, want background loop", got)
	}
	v := g.View()
	if v.GameOver || len(v.Enemies) != 3 {
		t.Errorf("view over=%v enemies=%d, want playing with 3", v.GameOver, len(v.Enemies))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.TickRate = 0
	if _, err := New(Options{Config: &cfg}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if _, err := New(Options{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("nil config err = %v, want ErrInvalid", err)
	}
}

func TestGameOverThenRestart(t *testing.T) {
	g, rec := newTestGame(t, doomedConfig())

	if err := g.Tick(frame); err != nil {
		t.Fatal(err)
	}
	over, ok := g.State().(*GameOver)
	if !ok {
		t.Fatalf("state = %T, want *GameOver", g.State())
	}
	if over.FinalScore() != 0 {
		t.Errorf("final score = %d, want 0", over.FinalScore())
	}
	v := g.View()
	if !v.GameOver || !v.Over || len(v.Enemies) != 1 {
		t.Errorf("view = over %v/%v enemies %d", v.GameOver, v.Over, len(v.Enemies))
	}

	// Movement keys do nothing on the game-over screen.
	g.HandleInput(input.Press(input.KeyUp))
	if _, ok := g.State().(*GameOver); !ok {
		t.Fatal("movement key left the game-over screen")
	}

	g.HandleInput(input.Press(input.KeyConfirm))
	if _, ok := g.State().(*Playing); !ok {
		t.Fatalf("state after confirm = %T, want *Playing", g.State())
	}
	if g.Rounds() != 2 {
		t.Errorf("rounds = %d, want 2", g.Rounds())
	}
	want := []audio.Cue{audio.CueBackgroundLoop, audio.CueBackgroundLoop}
	if got := rec.Cues(); !slices.Equal(got, want) {
		t.Errorf("cues = %v, want %v", got, want)
	}
}

func TestClickRestartsAfterDelay(t *testing.T) {
	g, _ := newTestGame(t, doomedConfig())
	if err := g.Tick(frame); err != nil {
		t.Fatal(err)
	}

	// Clicks that were meant as shots must not skip the game-over screen.
	g.HandleInput(input.Click(10, 10))
	if _, ok := g.State().(*GameOver); !ok {
		t.Fatalf("state after early click = %T, want *GameOver", g.State())
	}

	for waited := time.Duration(0); waited < ClickRestartDelay; waited += frame {
		if err := g.Tick(frame); err != nil {
			t.Fatal(err)
		}
	}
	g.HandleInput(input.Click(10, 10))
	if _, ok := g.State().(*Playing); !ok {
		t.Fatalf("state after click = %T, want *Playing", g.State())
	}
}

func TestConfirmRestartsImmediately(t *testing.T) {
	g, _ := newTestGame(t, doomedConfig())
	if err := g.Tick(frame); err != nil {
		t.Fatal(err)
	}
	g.HandleInput(input.Press(input.KeyConfirm))
	if _, ok := g.State().(*Playing); !ok {
		t.Fatalf("state after confirm = %T, want *Playing", g.State())
	}
}

func TestQuitKey(t *testing.T) {
	cfg := config.Default()
	g, _ := newTestGame(t, &cfg)
	if g.Quit() {
		t.Fatal("quit before key")
	}
	g.HandleInput(input.Press(input.KeyQuit))
	if !g.Quit() {
		t.Error("quit key not recorded")
	}
}

func TestPlayingForwardsInput(t *testing.T) {
	cfg := config.Default()
	cfg.StartingEnemyCount = 0
	g, _ := newTestGame(t, &cfg)

	g.HandleInput(input.Press(input.KeyRight))
	if err := g.Tick(frame); err != nil {
		t.Fatal(err)
	}
	if x := g.View().Ship.X; x != 405 {
		t.Errorf("ship x = %v, want 405", x)
	}

	g.HandleInput(input.Click(800, 305))
	if n := len(g.View().Bullets); n != 1 {
		t.Errorf("bullets = %d, want 1", n)
	}
}
