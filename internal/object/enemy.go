package object

import (
	"errors"
	"fmt"
)

// ErrInvalidTier is returned when an enemy is built with a tier outside 1..4.
var ErrInvalidTier = errors.New("invalid enemy tier")

// Tier is the size class of an enemy. Larger tiers split into smaller ones.
type Tier int

const (
	TierTiny   Tier = 1 // Terminal tier, destroyed without children
	TierSmall  Tier = 2
	TierMedium Tier = 3
	TierLarge  Tier = 4 // Spawned at round start
)

// Sprite sizes for each tier before scaling.
var tierSpriteSizes = map[Tier]float64{
	TierTiny:   24,
	TierSmall:  40,
	TierMedium: 56,
	TierLarge:  72,
}

// enemyScaleFactor matches the extra 1.5x applied to enemy sprites.
const enemyScaleFactor = 1.5

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	return t >= TierTiny && t <= TierLarge
}

// Smaller returns the tier one step down. Tiny has nothing smaller and
// returns an invalid tier (0).
func (t Tier) Smaller() Tier {
	return t - 1
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierTiny:
		return "tiny"
	case TierSmall:
		return "small"
	case TierMedium:
		return "medium"
	case TierLarge:
		return "large"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// EnemyRadius returns the collision radius for a tier at the given scale.
func EnemyRadius(t Tier, scale float64) float64 {
	return tierSpriteSizes[t] / 2 * scale * enemyScaleFactor
}

// MaxEnemyRadius returns the radius of the largest tier at the given scale.
func MaxEnemyRadius(scale float64) float64 {
	return EnemyRadius(TierLarge, scale)
}

// Enemy is a drifting sprite that splits when shot.
type Enemy struct {
	X, Y      float64 // Position (center)
	VX, VY    float64 // Velocity per tick
	Angle     float64 // Rotation in degrees
	Spin      float64 // Degrees per tick
	Tier      Tier    // Size class
	Radius    float64 // Collision radius
	destroyed bool
}

// NewEnemy creates a motionless enemy of the given tier at (x, y).
// Velocity and spin are set by the caller.
func NewEnemy(x, y float64, tier Tier, scale float64) (*Enemy, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTier, int(tier))
	}
	return &Enemy{
		X:      x,
		Y:      y,
		Tier:   tier,
		Radius: EnemyRadius(tier, scale),
	}, nil
}

// Move advances the enemy's position and rotation by one tick.
func (e *Enemy) Move() {
	e.X += e.VX
	e.Y += e.VY
	e.Angle += e.Spin
}

// MarkDestroyed marks the enemy for removal and splitting.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// GetPosition returns the enemy's center position.
func (e *Enemy) GetPosition() (float64, float64) {
	return e.X, e.Y
}

// GetRadius returns the enemy's collision radius.
func (e *Enemy) GetRadius() float64 {
	return e.Radius
}
