package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/splitshot/internal/draw"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/render"
)

// Defaults for TerminalOptions.
const (
	DefaultInactivityWarn       = 90 * time.Second
	DefaultInactivityDisconnect = 120 * time.Second
	DefaultShutdownNotice       = 10 * time.Second
)

// TerminalOptions configures a terminal session.
type TerminalOptions struct {
	Game         game.Options
	TermSizeFunc draw.TermSizeFunc
	Registry     *Registry // Optional; network hosts pass one
	User         string
	Logger       *log.Logger

	InactivityWarn       time.Duration // 0 uses the default, negative disables
	InactivityDisconnect time.Duration
	ShutdownNotice       time.Duration
}

// Terminal plays one game over a byte stream, drawing with escape sequences.
type Terminal struct {
	game     *game.Game
	renderer *render.Terminal
	stream   *input.Stream
	w        io.Writer
	sizeFunc draw.TermSizeFunc
	registry *Registry
	handle   *Handle
	logger   *log.Logger
	opts     TerminalOptions

	lastInput    time.Time
	shutdownAt   time.Time // Zero until the registry announces a shutdown
	notice       *render.Notice
	frameTime    time.Duration
	tickDuration time.Duration
}

// NewTerminal creates a session reading keys and mouse clicks from r and
// drawing to w. The game config must be set in opts.Game.
func NewTerminal(r *bufio.Reader, w io.Writer, opts TerminalOptions) (*Terminal, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Game.Logger == nil {
		opts.Game.Logger = opts.Logger
	}
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.InactivityWarn == 0 {
		opts.InactivityWarn = DefaultInactivityWarn
	}
	if opts.InactivityDisconnect == 0 {
		opts.InactivityDisconnect = DefaultInactivityDisconnect
	}
	if opts.ShutdownNotice == 0 {
		opts.ShutdownNotice = DefaultShutdownNotice
	}

	g, err := game.New(opts.Game)
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		game:         g,
		stream:       input.StartStream(r),
		w:            w,
		sizeFunc:     opts.TermSizeFunc,
		registry:     opts.Registry,
		logger:       opts.Logger,
		opts:         opts,
		tickDuration: g.Config().TickDuration(),
	}
	t.renderer = render.NewTerminal(w, g.Config().ScreenWidth, g.Config().ScreenHeight)

	if t.registry != nil {
		h, err := t.registry.Register(opts.User)
		if err != nil {
			return nil, fmt.Errorf("register session: %w", err)
		}
		t.handle = h
	}
	return t, nil
}

// Game returns the game driven by this session.
func (t *Terminal) Game() *game.Game {
	return t.game
}

// Run plays until the player quits, the input closes, the session idles out,
// the server shuts down or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.close()

	draw.HideCursor(t.w)
	draw.EnableMouse(t.w)
	draw.ClearScreen(t.w)
	defer func() {
		draw.DisableMouse(t.w)
		draw.ShowCursor(t.w)
		draw.ClearScreen(t.w)
	}()

	t.lastInput = time.Now()
	frame := time.NewTicker(t.tickDuration)
	defer frame.Stop()

	for {
		now := time.Now()

		if t.handleInput(now) {
			return nil
		}
		if t.handleEvents(now) {
			return nil
		}
		if t.idle(now) {
			t.logger.Info("disconnecting idle session", "user", t.opts.User)
			return nil
		}
		t.resize()

		if err := t.game.Tick(t.tickDuration); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		if err := t.renderer.Draw(t.game.View(), t.notice); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-frame.C:
		}
	}
}

// handleInput feeds pending events to the game and reports whether the
// session should end.
func (t *Terminal) handleInput(now time.Time) bool {
	for _, ev := range t.stream.Poll(now) {
		t.lastInput = now
		if ev.Kind == input.EventClick {
			x, y, ok := t.renderer.CellToField(int(ev.X), int(ev.Y))
			if !ok {
				continue
			}
			ev = input.Click(x, y)
		}
		over := t.game.View().GameOver
		t.game.HandleInput(ev)
		if over && !t.game.View().GameOver {
			// New round: forget keys held on the game-over screen.
			t.stream.Reset()
		}
	}
	return t.game.Quit() || t.stream.Closed()
}

// handleEvents processes registry events and reports whether the shutdown
// notice has been shown long enough.
func (t *Terminal) handleEvents(now time.Time) bool {
	t.drainEvents(now)
	return !t.shutdownAt.IsZero() && !now.Before(t.shutdownAt)
}

func (t *Terminal) drainEvents(now time.Time) {
	if t.handle == nil {
		return
	}
	for {
		select {
		case ev := <-t.handle.Events:
			if ev.Type == EventShutdown && t.shutdownAt.IsZero() {
				t.shutdownAt = now.Add(t.opts.ShutdownNotice)
				t.notice = &render.Notice{
					Title: "SERVER SHUTTING DOWN",
					Body:  fmt.Sprintf("Final score: %d", t.game.View().Score),
					Hint:  "Thanks for playing",
				}
			}
		default:
			return
		}
	}
}

// idle updates the inactivity notice and reports whether to disconnect.
func (t *Terminal) idle(now time.Time) bool {
	if !t.shutdownAt.IsZero() || t.opts.InactivityWarn < 0 {
		return false
	}
	quiet := now.Sub(t.lastInput)
	if quiet >= t.opts.InactivityDisconnect {
		return true
	}
	if quiet >= t.opts.InactivityWarn {
		left := (t.opts.InactivityDisconnect - quiet).Round(time.Second)
		t.notice = &render.Notice{
			Title: "INACTIVITY WARNING",
			Body:  fmt.Sprintf("Disconnecting in %s", left),
			Hint:  "Press any key to continue",
		}
	} else {
		t.notice = nil
	}
	return false
}

func (t *Terminal) resize() {
	cols, rows, err := t.sizeFunc()
	if err != nil {
		return
	}
	t.renderer.Resize(cols, rows)
}

func (t *Terminal) close() {
	t.game.Close()
	if t.handle != nil {
		t.registry.Unregister(t.handle.ID)
	}
}
