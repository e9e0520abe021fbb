package game

import (
	"time"

	"github.com/tomz197/splitshot/internal/arena"
	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/input"
)

// Playing runs one round.
type Playing struct {
	game  *Game
	arena *arena.Arena
}

// Enter resets the score display and starts the background music.
func (p *Playing) Enter() {
	p.game.rounds++
	p.game.board.Reset()
	p.game.audio.Play(audio.CueBackgroundLoop)
	p.game.logger.Info("round started", "round", p.game.rounds)
}

// Tick advances the arena.
func (p *Playing) Tick(dt time.Duration) error {
	p.game.board.Update(dt)
	return p.arena.Tick(dt)
}

// HandleInput forwards movement keys and clicks to the arena.
func (p *Playing) HandleInput(ev input.Event) {
	p.arena.HandleInput(ev)
}

// Exit implements State.
func (p *Playing) Exit() {}

// Arena returns the round in progress.
func (p *Playing) Arena() *arena.Arena {
	return p.arena
}

func (p *Playing) onGameOver(final int) {
	p.game.machine.Switch(&GameOver{
		game:  p.game,
		final: final,
		last:  p.arena.Snapshot(),
	})
}

// ClickRestartDelay is how long the game-over screen ignores clicks, so a
// player still firing when the ship dies does not skip it.
const ClickRestartDelay = 750 * time.Millisecond

// GameOver shows the final score until the player confirms.
type GameOver struct {
	game    *Game
	final   int
	last    arena.Snapshot // Frozen last frame drawn behind the score
	err     error          // Deferred failure to start the next round
	elapsed time.Duration
}

// Enter implements State.
func (g *GameOver) Enter() {
	g.game.logger.Info("game over", "score", g.final)
}

// Tick keeps the score counter rolling and reports a failed restart.
func (g *GameOver) Tick(dt time.Duration) error {
	g.elapsed += dt
	g.game.board.Update(dt)
	err := g.err
	g.err = nil
	return err
}

// HandleInput starts a new round on Confirm, or on a click once
// ClickRestartDelay has passed.
func (g *GameOver) HandleInput(ev input.Event) {
	restart := (ev.Kind == input.EventClick && g.elapsed >= ClickRestartDelay) ||
		(ev.Kind == input.EventKeyDown && ev.Key == input.KeyConfirm)
	if !restart {
		return
	}
	p, err := g.game.newPlaying()
	if err != nil {
		g.err = err
		return
	}
	g.game.machine.Switch(p)
}

// Exit implements State.
func (g *GameOver) Exit() {}

// FinalScore returns the score of the finished round.
func (g *GameOver) FinalScore() int {
	return g.final
}

var (
	_ State = (*Playing)(nil)
	_ State = (*GameOver)(nil)
)
