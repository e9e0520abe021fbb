package arena

import (
	"fmt"
	"math/rand"

	"github.com/tomz197/splitshot/internal/object"
	"github.com/tomz197/splitshot/internal/physics"
)

// maxSpawnAttempts bounds re-draws when a spawn lands inside the safe radius.
const maxSpawnAttempts = 32

// Velocity and spin ranges for starting enemies.
const (
	spawnVelocityMin = -1.0
	spawnVelocityMax = 2.0
	spinMin          = -1.0
	spinMax          = 1.0
)

// uniform returns a value in [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// spawnInitial fills the arena with the starting large enemies.
func (a *Arena) spawnInitial() error {
	for i := 0; i < a.cfg.StartingEnemyCount; i++ {
		x, y := a.spawnPosition()
		e, err := object.NewEnemy(x, y, object.TierLarge, a.cfg.Scale)
		if err != nil {
			return fmt.Errorf("spawn enemy %d: %w", i, err)
		}
		e.VX = uniform(a.rng, spawnVelocityMin, spawnVelocityMax)
		e.VY = uniform(a.rng, spawnVelocityMin, spawnVelocityMax)
		e.Spin = uniform(a.rng, spinMin, spinMax)
		a.enemies = append(a.enemies, e)
	}
	return nil
}

// spawnPosition draws a point in the spawn rectangle, avoiding the ship's
// surroundings when a safe radius is configured.
func (a *Arena) spawnPosition() (float64, float64) {
	var x, y float64
	for attempt := 0; attempt < maxSpawnAttempts; attempt++ {
		x = uniform(a.rng, a.cfg.LeftLimit, a.cfg.RightLimit)
		y = uniform(a.rng, a.cfg.BottomLimit, a.cfg.TopLimit)
		if a.cfg.SpawnSafeRadius <= 0 {
			break
		}
		if physics.Distance(x, y, a.ship.X, a.ship.Y) >= a.cfg.SpawnSafeRadius {
			break
		}
	}
	return x, y
}
