// Package game drives rounds through a small state machine so every host
// (terminal, SSH, tcell, desktop, browser) shares the same flow: play a
// round, show the final score, start again.
package game

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/logging"
)

// State is one phase of the game.
type State interface {
	Enter()
	Tick(dt time.Duration) error
	HandleInput(ev input.Event)
	Exit()
}

// Machine holds the current state. Switches requested while a state is
// handling a tick or an event take effect once that call returns.
type Machine struct {
	current State
	next    State
	logger  *log.Logger
}

// NewMachine creates a machine with no state. Call Start before ticking.
func NewMachine(logger *log.Logger) *Machine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Machine{logger: logger}
}

// Start enters s immediately, leaving any current state first.
func (m *Machine) Start(s State) {
	m.next = s
	m.apply()
}

// Switch requests a transition to s.
func (m *Machine) Switch(s State) {
	m.next = s
}

// Current returns the active state.
func (m *Machine) Current() State {
	return m.current
}

// Tick forwards to the active state, then applies any pending switch.
func (m *Machine) Tick(dt time.Duration) error {
	if m.current == nil {
		return nil
	}
	err := m.current.Tick(dt)
	m.apply()
	return err
}

// HandleInput forwards to the active state, then applies any pending switch.
func (m *Machine) HandleInput(ev input.Event) {
	if m.current == nil {
		return
	}
	m.current.HandleInput(ev)
	m.apply()
}

// Stop leaves the active state.
func (m *Machine) Stop() {
	if m.current != nil {
		m.current.Exit()
		m.current = nil
	}
	m.next = nil
}

func (m *Machine) apply() {
	for m.next != nil {
		next := m.next
		m.next = nil
		if m.current != nil {
			m.current.Exit()
		}
		m.logger.Debug("state switch", "from", stateName(m.current), "to", stateName(next))
		m.current = next
		m.current.Enter()
	}
}

func stateName(s State) string {
	switch s.(type) {
	case nil:
		return "none"
	case *Playing:
		return "playing"
	case *GameOver:
		return "game-over"
	default:
		return "custom"
	}
}
