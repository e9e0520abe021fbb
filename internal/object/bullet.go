package object

import "math"

// laserSpriteWidth is the short side of the laser sprite before scaling.
const laserSpriteWidth = 9.0

// Bullet is a projectile fired by the ship.
type Bullet struct {
	X, Y      float64 // Position
	VX, VY    float64 // Velocity per tick
	Angle     float64 // Display orientation in degrees, not used by physics
	Radius    float64 // Collision radius
	destroyed bool
}

// NewBullet creates a bullet at (x, y) travelling toward angle (radians) at speed.
func NewBullet(x, y, angle, speed, laserScaling float64) *Bullet {
	return &Bullet{
		X:      x,
		Y:      y,
		VX:     math.Cos(angle) * speed,
		VY:     math.Sin(angle) * speed,
		Angle:  angle * 180 / math.Pi,
		Radius: BulletRadius(laserScaling),
	}
}

// Move advances the bullet by one tick.
func (b *Bullet) Move() {
	b.X += b.VX
	b.Y += b.VY
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// GetPosition returns the bullet's position.
func (b *Bullet) GetPosition() (float64, float64) {
	return b.X, b.Y
}

// GetRadius returns the bullet's collision radius.
func (b *Bullet) GetRadius() float64 {
	return b.Radius
}

// BulletRadius returns the collision radius of a bullet at the given laser scaling.
func BulletRadius(laserScaling float64) float64 {
	return laserSpriteWidth / 2 * laserScaling
}
