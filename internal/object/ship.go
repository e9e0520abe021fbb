package object

// shipSpriteSize is the edge length of the ship sprite before scaling.
const shipSpriteSize = 64.0

// Ship is the player-controlled ship.
// Velocity is rewritten from the movement intent every tick.
type Ship struct {
	X, Y   float64 // Position (center of ship)
	VX, VY float64 // Velocity per tick
	Radius float64 // Collision radius
}

// NewShip creates a ship at the given position. spriteScaling sizes the hitbox.
func NewShip(x, y, spriteScaling float64) *Ship {
	return &Ship{
		X:      x,
		Y:      y,
		Radius: shipSpriteSize / 2 * spriteScaling,
	}
}

// SetVelocity replaces the ship's velocity.
func (s *Ship) SetVelocity(vx, vy float64) {
	s.VX = vx
	s.VY = vy
}

// Move advances the ship by one tick.
func (s *Ship) Move() {
	s.X += s.VX
	s.Y += s.VY
}

// GetPosition returns the ship's center position.
func (s *Ship) GetPosition() (float64, float64) {
	return s.X, s.Y
}

// GetRadius returns the ship's collision radius.
func (s *Ship) GetRadius() float64 {
	return s.Radius
}
