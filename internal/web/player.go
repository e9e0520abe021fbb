package web

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/game"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/session"
)

// clientMessage is sent by the browser.
type clientMessage struct {
	Type string  `json:"type"` // "key" or "click"
	Key  string  `json:"key,omitempty"`
	Down bool    `json:"down,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// serverMessage is sent to the browser.
type serverMessage struct {
	Type    string     `json:"type"` // "frame" or "shutdown"
	Session string     `json:"session,omitempty"`
	View    *game.View `json:"view,omitempty"`
	Cues    []string   `json:"cues,omitempty"`
}

var keyNames = map[string]input.Key{
	"up":      input.KeyUp,
	"down":    input.KeyDown,
	"left":    input.KeyLeft,
	"right":   input.KeyRight,
	"confirm": input.KeyConfirm,
	"quit":    input.KeyQuit,
}

// toEvent converts a browser message to a game event.
func toEvent(m clientMessage) (input.Event, bool) {
	switch m.Type {
	case "click":
		return input.Click(m.X, m.Y), true
	case "key":
		k, ok := keyNames[m.Key]
		if !ok {
			return input.Event{}, false
		}
		if m.Down {
			return input.Press(k), true
		}
		return input.Release(k), true
	}
	return input.Event{}, false
}

// player is one browser connection running its own game.
type player struct {
	conn   *websocket.Conn
	handle *session.Handle
	game   *game.Game
	cues   *audio.Recorder
	logger *log.Logger
	grace  time.Duration
	tick   time.Duration
}

func newPlayer(s *Server, conn *websocket.Conn, h *session.Handle) (*player, error) {
	cues := &audio.Recorder{}
	logger := s.logger.With("session", h.ID)
	g, err := game.New(game.Options{Config: s.cfg, Audio: cues, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &player{
		conn:   conn,
		handle: h,
		game:   g,
		cues:   cues,
		logger: logger,
		grace:  s.grace,
		tick:   s.cfg.TickDuration(),
	}, nil
}

// run ticks the game and streams frames until the browser leaves, quits,
// the server shuts down or ctx ends. Only this goroutine writes to conn.
func (p *player) run(ctx context.Context) error {
	defer p.game.Close()

	events := make(chan input.Event, 64)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go p.read(events, readErr, done)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	var closeAt time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.logger.Debug("read ended", "err", err)
			}
			return nil
		case ev := <-events:
			p.game.HandleInput(ev)
			if p.game.Quit() {
				p.close("bye")
				return nil
			}
		case ev := <-p.handle.Events:
			if ev.Type == session.EventShutdown && closeAt.IsZero() {
				closeAt = time.Now().Add(p.grace)
				if err := p.conn.WriteJSON(serverMessage{Type: "shutdown"}); err != nil {
					return nil
				}
			}
		case now := <-ticker.C:
			if !closeAt.IsZero() && !now.Before(closeAt) {
				p.close("server shutting down")
				return nil
			}
			if err := p.game.Tick(p.tick); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
			if err := p.sendFrame(); err != nil {
				p.logger.Debug("write failed", "err", err)
				return nil
			}
		}
	}
}

func (p *player) read(events chan<- input.Event, errc chan<- error, done <-chan struct{}) {
	for {
		var m clientMessage
		if err := p.conn.ReadJSON(&m); err != nil {
			errc <- err
			return
		}
		ev, ok := toEvent(m)
		if !ok {
			continue
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (p *player) sendFrame() error {
	v := p.game.View()
	msg := serverMessage{Type: "frame", Session: p.handle.ID, View: &v}
	for _, c := range p.cues.Drain() {
		msg.Cues = append(msg.Cues, c.String())
	}
	p.conn.SetWriteDeadline(time.Now().Add(time.Second))
	return p.conn.WriteJSON(msg)
}

func (p *player) close(reason string) {
	deadline := time.Now().Add(time.Second)
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason), deadline)
}
