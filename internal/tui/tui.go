// Package tui runs the game on a tcell screen, for terminals where raw
// escape-sequence input is awkward. Keys and mouse come from tcell events.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/splitshot/internal/draw"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/render"
)

var (
	fieldStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	hudStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	overStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	helpStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Host drives a game from tcell events.
type Host struct {
	screen tcell.Screen
	game   *game.Game
	holder *input.Holder
	canvas *draw.Canvas
	logger *log.Logger

	leftDown bool // Button 1 state, so a held button fires once
	tick     time.Duration
}

// New creates a host on an initialised screen.
func New(screen tcell.Screen, opts game.Options) (*Host, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	g, err := game.New(opts)
	if err != nil {
		return nil, err
	}
	cfg := g.Config()
	h := &Host{
		screen: screen,
		game:   g,
		holder: input.NewHolder(input.DefaultHoldDuration),
		canvas: draw.NewCanvas(1, 1, cfg.ScreenWidth, cfg.ScreenHeight),
		logger: opts.Logger,
		tick:   cfg.TickDuration(),
	}
	screen.EnableMouse()
	screen.HideCursor()
	h.layout()
	return h, nil
}

// Game returns the hosted game.
func (h *Host) Game() *game.Game {
	return h.game
}

// Run processes events and ticks until quit or ctx is cancelled.
// The caller owns the screen and must Fini it.
func (h *Host) Run(ctx context.Context) error {
	defer h.game.Close()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go h.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.handle(ev, time.Now())
			if h.game.Quit() {
				return nil
			}
		case now := <-ticker.C:
			for _, ev := range h.holder.Expire(now) {
				h.game.HandleInput(ev)
			}
			if err := h.game.Tick(h.tick); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
			h.draw()
		}
	}
}

func (h *Host) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k := keyFor(ev)
		if k == input.KeyNone {
			return
		}
		if out, ok := h.holder.Press(k, now); ok {
			h.game.HandleInput(out)
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !h.leftDown {
			col, row := ev.Position()
			if x, y, ok := h.canvas.CellToField(col+1, row+1); ok {
				h.game.HandleInput(input.Click(x, y))
			}
		}
		h.leftDown = down
	case *tcell.EventResize:
		h.layout()
		h.screen.Sync()
	}
}

// keyFor maps a tcell key event to a game key.
func keyFor(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyUp
	case tcell.KeyDown:
		return input.KeyDown
	case tcell.KeyLeft:
		return input.KeyLeft
	case tcell.KeyRight:
		return input.KeyRight
	case tcell.KeyEnter:
		return input.KeyConfirm
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.KeyQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return input.KeyUp
		case 's', 'S':
			return input.KeyDown
		case 'a', 'A':
			return input.KeyLeft
		case 'd', 'D':
			return input.KeyRight
		case ' ':
			return input.KeyConfirm
		case 'q', 'Q':
			return input.KeyQuit
		}
	}
	return input.KeyNone
}

func (h *Host) layout() {
	w, ht := h.screen.Size()
	cfg := h.game.Config()
	cols, rows, offCol, offRow := draw.Fit(w, ht, cfg.ScreenWidth, cfg.ScreenHeight)
	h.canvas.Resize(cols, rows)
	h.canvas.SetOffset(offCol, offRow)
}

func (h *Host) draw() {
	v := h.game.View()
	h.screen.Clear()

	h.canvas.Clear()
	render.DrawField(h.canvas, v)
	cols, rows := h.canvas.Size()
	offCol, offRow := h.canvas.Offset()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if ch := h.canvas.Cell(col, row); ch != 0 {
				h.screen.SetContent(col+offCol, row+offRow, ch, nil, fieldStyle)
			}
		}
	}

	if v.GameOver {
		cx, cy := offCol+cols/2, offRow+rows/2
		h.centered(cx, cy-2, render.GameOverText, overStyle)
		h.centered(cx, cy, fmt.Sprintf("Score: %d", v.Score), hudStyle)
		h.centered(cx, cy+1, render.HitsLine(v), hudStyle)
		h.centered(cx, cy+3, render.RestartHint, helpStyle)
	} else {
		h.text(offCol+1, offRow, render.ScoreLine(v), hudStyle)
		hits := render.HitsLine(v)
		h.text(offCol+cols-len(hits)-1, offRow, hits, hudStyle)
		h.text(offCol+1, offRow+rows-1, render.HelpLine, helpStyle)
	}
	h.screen.Show()
}

func (h *Host) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (h *Host) centered(cx, y int, s string, style tcell.Style) {
	h.text(cx-len([]rune(s))/2, y, s, style)
}
