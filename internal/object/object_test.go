package object

import (
	"errors"
	"math"
	"testing"
)

func TestNewEnemyRejectsInvalidTier(t *testing.T) {
	for _, tier := range []Tier{0, -1, 5, 42} {
		e, err := NewEnemy(0, 0, tier, 1)
		if !errors.Is(err, ErrInvalidTier) {
			t.Errorf("NewEnemy(tier=%d) error = %v, want ErrInvalidTier", tier, err)
		}
		if e != nil {
			t.Errorf("NewEnemy(tier=%d) returned an enemy", tier)
		}
	}
}

func TestTierOrdering(t *testing.T) {
	prev := 0.0
	for tier := TierTiny; tier <= TierLarge; tier++ {
		if !tier.Valid() {
			t.Fatalf("tier %v not valid", tier)
		}
		r := EnemyRadius(tier, 0.5)
		if r <= prev {
			t.Errorf("radius of %v = %v, not larger than previous %v", tier, r, prev)
		}
		prev = r
	}
	if TierTiny.Smaller().Valid() {
		t.Error("tier below tiny should be invalid")
	}
	if TierLarge.Smaller() != TierMedium {
		t.Errorf("large.Smaller() = %v, want medium", TierLarge.Smaller())
	}
	if MaxEnemyRadius(0.5) != EnemyRadius(TierLarge, 0.5) {
		t.Error("max radius should match the large tier")
	}
}

func TestEnemyMoveAdvancesRotation(t *testing.T) {
	e, err := NewEnemy(10, 20, TierLarge, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	e.VX, e.VY, e.Spin = 1, -2, 0.5
	e.Move()
	e.Move()
	if e.X != 12 || e.Y != 16 || e.Angle != 1 {
		t.Errorf("after 2 moves got (%v, %v, %v), want (12, 16, 1)", e.X, e.Y, e.Angle)
	}
}

func TestBulletToTheRight(t *testing.T) {
	b := NewBullet(0, 0, 0, 5, 0.8)
	if b.VX != 5 || b.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (5, 0)", b.VX, b.VY)
	}
	if b.Angle != 0 {
		t.Errorf("angle = %v, want 0", b.Angle)
	}
}

func TestBulletStraightUp(t *testing.T) {
	b := NewBullet(0, 0, math.Pi/2, 5, 0.8)
	if math.Abs(b.VX) > 1e-9 || math.Abs(b.VY-5) > 1e-9 {
		t.Errorf("velocity = (%v, %v), want (0, 5)", b.VX, b.VY)
	}
	if math.Abs(b.Angle-90) > 1e-9 {
		t.Errorf("angle = %v, want 90", b.Angle)
	}
}

func TestMarkDestroyedIsIdempotent(t *testing.T) {
	b := NewBullet(0, 0, 0, 1, 1)
	b.MarkDestroyed()
	b.MarkDestroyed()
	if !b.IsDestroyed() {
		t.Error("bullet should be destroyed")
	}
}

func TestShipMove(t *testing.T) {
	s := NewShip(100, 100, 0.5)
	s.SetVelocity(5, -5)
	s.Move()
	if s.X != 105 || s.Y != 95 {
		t.Errorf("position = (%v, %v), want (105, 95)", s.X, s.Y)
	}
	if s.GetRadius() != 16 {
		t.Errorf("radius = %v, want 16", s.GetRadius())
	}
}

func TestOverlaps(t *testing.T) {
	ship := NewShip(0, 0, 0.5)
	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"inside", 10, true},
		{"just inside", 24, true},
		{"clear", 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEnemy(tt.x, 0, TierTiny, 0.5)
			if err != nil {
				t.Fatal(err)
			}
			if got := Overlaps(ship, e); got != tt.want {
				t.Errorf("Overlaps(ship, enemy at x=%v) = %v, want %v", tt.x, got, tt.want)
			}
			if got := Overlaps(e, ship); got != tt.want {
				t.Errorf("Overlaps not symmetric at x=%v", tt.x)
			}
		})
	}
}
