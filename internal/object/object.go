// Package object defines the entities that live in an arena: the player ship,
// bullets and enemies.
package object

import "github.com/tomz197/splitshot/internal/physics"

// Destructible is implemented by objects that can be marked for removal.
// Marking is idempotent; the owner compacts marked objects after its scan.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Body is anything with a position and a circular hitbox.
type Body interface {
	GetPosition() (x, y float64)
	GetRadius() float64
}

// Overlaps reports whether the hitboxes of a and b intersect.
func Overlaps(a, b Body) bool {
	ax, ay := a.GetPosition()
	bx, by := b.GetPosition()
	return physics.CirclesOverlap(ax, ay, a.GetRadius(), bx, by, b.GetRadius())
}

// Compile-time interface checks.
var (
	_ Body         = (*Ship)(nil)
	_ Body         = (*Bullet)(nil)
	_ Body         = (*Enemy)(nil)
	_ Destructible = (*Bullet)(nil)
	_ Destructible = (*Enemy)(nil)
)
