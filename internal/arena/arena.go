// Package arena runs one round of the game: it owns the ship, bullets and
// enemies, integrates movement each tick, resolves hits and splits, keeps the
// score and detects the end of the round.
package arena

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/config"
	"github.com/tomz197/splitshot/internal/input"
	"github.com/tomz197/splitshot/internal/logging"
	"github.com/tomz197/splitshot/internal/object"
	"github.com/tomz197/splitshot/internal/physics"
	"github.com/tomz197/splitshot/internal/score"
)

// ScoreSink receives one event per destroyed enemy.
type ScoreSink interface {
	Record(k score.Kind)
}

type nopSink struct{}

func (nopSink) Record(score.Kind) {}

// Options wires the arena to its collaborators. Every field is optional.
type Options struct {
	Rand       *rand.Rand      // Source for spawn and split randomness
	Audio      audio.Player    // Receives hit cues
	Score      ScoreSink       // Receives basic/final hit events
	OnGameOver func(score int) // Called once when the ship is hit
	Logger     *log.Logger
}

// Arena is the owning context for one round.
// It is not safe for concurrent use; hosts serialise input and ticks.
type Arena struct {
	cfg    *config.Config
	field  physics.Rect
	rng    *rand.Rand
	audio  audio.Player
	sink   ScoreSink
	onOver func(int)
	logger *log.Logger

	ship    *object.Ship
	bullets []*object.Bullet
	enemies []*object.Enemy
	toSpawn []*object.Enemy // Children queued during the hit scan
	intent  input.Intent

	grid  *physics.SpatialGrid
	score int
	ticks uint64
	over  bool
}

// New creates an arena with the ship at the centre of the playfield and the
// starting enemies spawned.
func New(cfg *config.Config, opts Options) (*Arena, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Arena{
		cfg:    cfg,
		field:  physics.Rect{MaxX: cfg.ScreenWidth, MaxY: cfg.ScreenHeight},
		rng:    opts.Rand,
		audio:  opts.Audio,
		sink:   opts.Score,
		onOver: opts.OnGameOver,
		logger: opts.Logger,
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.audio == nil {
		a.audio = audio.Nop{}
	}
	if a.sink == nil {
		a.sink = nopSink{}
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}

	cellSize := object.MaxEnemyRadius(cfg.Scale) + object.BulletRadius(cfg.SpriteScalingLaser)
	a.grid = physics.NewSpatialGrid(a.field, cellSize)

	a.ship = object.NewShip(cfg.ScreenWidth/2, cfg.ScreenHeight/2, cfg.SpriteScaling)
	if err := a.spawnInitial(); err != nil {
		return nil, err
	}

	a.logger.Debug("round started", "enemies", len(a.enemies))
	return a, nil
}

// HandleInput applies a key or click event. Ignored once the round is over.
func (a *Arena) HandleInput(ev input.Event) {
	if a.over {
		return
	}
	if ev.Kind == input.EventClick {
		a.Fire(ev.X, ev.Y)
		return
	}
	a.intent.Apply(ev)
}

// Fire launches a bullet from the ship toward (x, y).
// It returns nil if the round is over.
func (a *Arena) Fire(x, y float64) *object.Bullet {
	if a.over {
		return nil
	}
	angle := math.Atan2(y-a.ship.Y, x-a.ship.X)
	b := object.NewBullet(a.ship.X, a.ship.Y, angle, a.cfg.BulletSpeed, a.cfg.SpriteScalingLaser)
	a.bullets = append(a.bullets, b)
	return b
}

// Tick advances the round by one frame. dt is informational; speeds are per
// tick. After the round is over Tick does nothing.
func (a *Arena) Tick(dt time.Duration) error {
	if a.over {
		return nil
	}
	a.ticks++

	// Movement
	a.ship.SetVelocity(a.intent.Velocity(a.cfg.MovementSpeed))
	a.ship.Move()
	for _, e := range a.enemies {
		e.Move()
	}
	for _, b := range a.bullets {
		b.Move()
	}

	// Collisions, with removal deferred to compact
	if err := a.resolveHits(); err != nil {
		return fmt.Errorf("tick %d: %w", a.ticks, err)
	}
	a.cullBullets()
	a.compact()

	a.checkShip()
	return nil
}

// Score returns the number of enemies destroyed this round.
func (a *Arena) Score() int {
	return a.score
}

// Over reports whether the round has ended.
func (a *Arena) Over() bool {
	return a.over
}

// Ticks returns the number of ticks processed.
func (a *Arena) Ticks() uint64 {
	return a.ticks
}

// Config returns the configuration the arena was built with.
func (a *Arena) Config() *config.Config {
	return a.cfg
}
