package arena

import (
	"fmt"

	"github.com/tomz197/splitshot/internal/audio"
	"github.com/tomz197/splitshot/internal/object"
	"github.com/tomz197/splitshot/internal/score"
)

// splitRule describes what happens when an enemy of a given tier is destroyed.
type splitRule struct {
	children  int
	jitterMin float64 // Child velocity range per axis, [min, max)
	jitterMax float64
	cue       audio.Cue
	kind      score.Kind
}

const splitChildren = 3

var splitRules = map[object.Tier]splitRule{
	object.TierLarge:  {children: splitChildren, jitterMin: -1, jitterMax: 1.5, cue: audio.CueTier1Hit, kind: score.KindBasic},
	object.TierMedium: {children: splitChildren, jitterMin: -1.5, jitterMax: 1.5, cue: audio.CueTier2Hit, kind: score.KindBasic},
	object.TierSmall:  {children: splitChildren, jitterMin: -1.75, jitterMax: 1.75, cue: audio.CueTier3Hit, kind: score.KindBasic},
	object.TierTiny:   {cue: audio.CueFinalHit, kind: score.KindFinal},
}

// resolveHits tests every live bullet against nearby live enemies.
// A bullet consumes the lowest-index enemy it overlaps; enemies struck
// earlier in the same tick are skipped.
func (a *Arena) resolveHits() error {
	a.grid.Clear()
	for i, e := range a.enemies {
		a.grid.Insert(e.X, e.Y, i)
	}

	for _, b := range a.bullets {
		if b.IsDestroyed() {
			continue
		}

		hit := -1
		a.grid.QueryAround(b.X, b.Y, func(j int) bool {
			if hit >= 0 && j > hit {
				return false
			}
			e := a.enemies[j]
			if e.IsDestroyed() {
				return false
			}
			if object.Overlaps(b, e) {
				hit = j
			}
			return false
		})
		if hit < 0 {
			continue
		}

		e := a.enemies[hit]
		b.MarkDestroyed()
		e.MarkDestroyed()
		if err := a.destroyEnemy(e); err != nil {
			return err
		}
	}
	return nil
}

// destroyEnemy scores a struck enemy, plays its cue and queues its children.
func (a *Arena) destroyEnemy(e *object.Enemy) error {
	rule, ok := splitRules[e.Tier]
	if !ok {
		return fmt.Errorf("split enemy: %w: %d", object.ErrInvalidTier, int(e.Tier))
	}

	a.score++
	a.sink.Record(rule.kind)
	a.audio.Play(rule.cue)

	for i := 0; i < rule.children; i++ {
		child, err := object.NewEnemy(e.X, e.Y, e.Tier.Smaller(), a.cfg.Scale)
		if err != nil {
			return fmt.Errorf("split enemy: %w", err)
		}
		child.VX = uniform(a.rng, rule.jitterMin, rule.jitterMax)
		child.VY = uniform(a.rng, rule.jitterMin, rule.jitterMax)
		child.Spin = uniform(a.rng, spinMin, spinMax)
		a.toSpawn = append(a.toSpawn, child)
	}

	a.logger.Debug("enemy destroyed", "tier", e.Tier, "children", rule.children, "score", a.score)
	return nil
}

// cullBullets marks bullets whose centre has left the playfield.
func (a *Arena) cullBullets() {
	for _, b := range a.bullets {
		if !b.IsDestroyed() && !a.field.Contains(b.X, b.Y) {
			b.MarkDestroyed()
		}
	}
}

// compact drops destroyed objects and flushes queued children.
func (a *Arena) compact() {
	a.bullets = compactLive(a.bullets)
	a.enemies = append(compactLive(a.enemies), a.toSpawn...)

	clear(a.toSpawn)
	a.toSpawn = a.toSpawn[:0]
}

// compactLive removes marked objects in place, keeping order.
func compactLive[T object.Destructible](s []T) []T {
	live := s[:0]
	for _, o := range s {
		if !o.IsDestroyed() {
			live = append(live, o)
		}
	}
	clear(s[len(live):])
	return live
}

// checkShip ends the round if any enemy touches the ship.
func (a *Arena) checkShip() {
	for _, e := range a.enemies {
		if object.Overlaps(a.ship, e) {
			a.over = true
			a.logger.Info("game over", "score", a.score, "ticks", a.ticks)
			if a.onOver != nil {
				a.onOver(a.score)
			}
			return
		}
	}
}
