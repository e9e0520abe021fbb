package arena

// ShipView is the render state of the ship.
type ShipView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
}

// BulletView is the render state of one bullet.
type BulletView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"a"`
	Radius float64 `json:"r"`
}

// EnemyView is the render state of one enemy.
type EnemyView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"a"`
	Tier   int     `json:"t"`
	Radius float64 `json:"r"`
}

// Snapshot is a copy of everything a renderer needs for one frame.
// Coordinates are playfield units with y pointing up.
type Snapshot struct {
	Width   float64      `json:"w"`
	Height  float64      `json:"h"`
	Ship    ShipView     `json:"ship"`
	Bullets []BulletView `json:"bullets"`
	Enemies []EnemyView  `json:"enemies"`
	Score   int          `json:"score"`
	Over    bool         `json:"over"`
	Tick    uint64       `json:"tick"`
}

// Snapshot copies the current state. The result does not alias the arena.
func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		Width:   a.cfg.ScreenWidth,
		Height:  a.cfg.ScreenHeight,
		Ship:    ShipView{X: a.ship.X, Y: a.ship.Y, Radius: a.ship.Radius},
		Bullets: make([]BulletView, 0, len(a.bullets)),
		Enemies: make([]EnemyView, 0, len(a.enemies)),
		Score:   a.score,
		Over:    a.over,
		Tick:    a.ticks,
	}
	for _, b := range a.bullets {
		s.Bullets = append(s.Bullets, BulletView{X: b.X, Y: b.Y, Angle: b.Angle, Radius: b.Radius})
	}
	for _, e := range a.enemies {
		s.Enemies = append(s.Enemies, EnemyView{X: e.X, Y: e.Y, Angle: e.Angle, Tier: int(e.Tier), Radius: e.Radius})
	}
	return s
}
