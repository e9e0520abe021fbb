package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/splitshot/internal/arena"
	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/score"
)

// Options configures a Game. Config is required.
type Options struct {
	Config *config.Config
	Audio  audio.Player
	Board  *score.Board
	Rand   *rand.Rand
	Logger *log.Logger
}

// Game owns the state machine and the collaborators shared by every round.
type Game struct {
	cfg     *config.Config
	audio   audio.Player
	board   *score.Board
	rng     *rand.Rand
	logger  *log.Logger
	machine *Machine
	rounds  int
	quit    bool
}

// View is what hosts draw each frame.
type View struct {
	arena.Snapshot
	Displayed int  `json:"displayed"` // Rolling score counter
	Basic     int  `json:"basic"`     // Enemies split this round
	Final     int  `json:"final"`     // Smallest enemies destroyed this round
	GameOver  bool `json:"gameOver"`  // Game-over screen is showing
}

// New validates the configuration and starts the first round.
func New(opts Options) (*Game, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    opts.Config,
		audio:  opts.Audio,
		board:  opts.Board,
		rng:    opts.Rand,
		logger: opts.Logger,
	}
	if g.audio == nil {
		g.audio = audio.Nop{}
	}
	if g.board == nil {
		g.board = score.NewBoard()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = logging.Discard()
	}
	g.machine = NewMachine(g.logger)

	p, err := g.newPlaying()
	if err != nil {
		return nil, err
	}
	g.machine.Start(p)
	return g, nil
}

// Tick advances the active state by one frame.
func (g *Game) Tick(dt time.Duration) error {
	return g.machine.Tick(dt)
}

// HandleInput routes an event to the active state. The quit key is handled
// here for every state.
func (g *Game) HandleInput(ev input.Event) {
	if ev.Kind == input.EventKeyDown && ev.Key == input.KeyQuit {
		g.quit = true
		return
	}
	g.machine.HandleInput(ev)
}

// Quit reports whether the player asked to leave.
func (g *Game) Quit() bool {
	return g.quit
}

// Rounds returns how many rounds have been started.
func (g *Game) Rounds() int {
	return g.rounds
}

// State returns the active state.
func (g *Game) State() State {
	return g.machine.Current()
}

// Config returns the game configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// View returns the current frame for rendering.
func (g *Game) View() View {
	v := View{
		Displayed: g.board.Displayed(),
		Basic:     g.board.Basic(),
		Final:     g.board.Final(),
	}
	switch s := g.machine.Current().(type) {
	case *Playing:
		v.Snapshot = s.arena.Snapshot()
	case *GameOver:
		v.Snapshot = s.last
		v.Score = s.final
		v.GameOver = true
	}
	return v
}

// Close leaves the active state.
func (g *Game) Close() {
	g.machine.Stop()
}

func (g *Game) newPlaying() (*Playing, error) {
	p := &Playing{game: g}
	a, err := arena.New(g.cfg, arena.Options{
		Rand:       g.rng,
		Audio:      g.audio,
		Score:      g.board,
		OnGameOver: p.onGameOver,
		Logger:     g.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	p.arena = a
	return p, nil
}
