package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalid is returned (wrapped) when a Config fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable game parameter for one arena.
// It is built once at startup and passed by pointer; nothing mutates it afterwards.
type Config struct {
	// Playfield
	ScreenWidth  float64
	ScreenHeight float64

	// Speeds are in playfield units per tick.
	MovementSpeed float64
	BulletSpeed   float64

	// Sprite scaling drives hitbox radii.
	SpriteScaling      float64 // Ship
	SpriteScalingLaser float64 // Bullets
	Scale              float64 // Enemies

	// Spawning
	StartingEnemyCount int
	LeftLimit          float64
	RightLimit         float64
	BottomLimit        float64
	TopLimit           float64
	SpawnSafeRadius    float64 // Initial enemies never spawn this close to the ship (0 = off)

	// Host tick rate in Hz
	TickRate int
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ScreenWidth:        800,
		ScreenHeight:       600,
		MovementSpeed:      5,
		BulletSpeed:        5,
		SpriteScaling:      0.5,
		SpriteScalingLaser: 0.8,
		Scale:              0.5,
		StartingEnemyCount: 3,
		LeftLimit:          0,
		RightLimit:         800,
		BottomLimit:        0,
		TopLimit:           600,
		SpawnSafeRadius:    120,
		TickRate:           60,
	}
}

// Load reads an optional .env file, applies GAME_* environment overrides on top
// of Default and validates the result.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()
	floats := []struct {
		key string
		dst *float64
	}{
		{"GAME_SCREEN_WIDTH", &cfg.ScreenWidth},
		{"GAME_SCREEN_HEIGHT", &cfg.ScreenHeight},
		{"GAME_MOVEMENT_SPEED", &cfg.MovementSpeed},
		{"GAME_BULLET_SPEED", &cfg.BulletSpeed},
		{"GAME_SPRITE_SCALING", &cfg.SpriteScaling},
		{"GAME_SPRITE_SCALING_LASER", &cfg.SpriteScalingLaser},
		{"GAME_SCALE", &cfg.Scale},
		{"GAME_LEFT_LIMIT", &cfg.LeftLimit},
		{"GAME_RIGHT_LIMIT", &cfg.RightLimit},
		{"GAME_BOTTOM_LIMIT", &cfg.BottomLimit},
		{"GAME_TOP_LIMIT", &cfg.TopLimit},
		{"GAME_SPAWN_SAFE_RADIUS", &cfg.SpawnSafeRadius},
	}
	for _, f := range floats {
		raw := GetEnv(f.key, "")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s=%q: %w", f.key, raw, err)
		}
		*f.dst = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"GAME_STARTING_ENEMY_COUNT", &cfg.StartingEnemyCount},
		{"GAME_TICK_RATE", &cfg.TickRate},
	}
	for _, f := range ints {
		raw := GetEnv(f.key, "")
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s=%q: %w", f.key, raw, err)
		}
		*f.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive an arena.
func (c Config) Validate() error {
	switch {
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen must be positive, got %vx%v", ErrInvalid, c.ScreenWidth, c.ScreenHeight)
	case c.MovementSpeed <= 0:
		return fmt.Errorf("%w: movement speed must be positive", ErrInvalid)
	case c.BulletSpeed <= 0:
		return fmt.Errorf("%w: bullet speed must be positive", ErrInvalid)
	case c.SpriteScaling <= 0 || c.SpriteScalingLaser <= 0 || c.Scale <= 0:
		return fmt.Errorf("%w: sprite scales must be positive", ErrInvalid)
	case c.StartingEnemyCount < 0:
		return fmt.Errorf("%w: starting enemy count %d is negative", ErrInvalid, c.StartingEnemyCount)
	case c.LeftLimit >= c.RightLimit:
		return fmt.Errorf("%w: left limit %v not below right limit %v", ErrInvalid, c.LeftLimit, c.RightLimit)
	case c.BottomLimit >= c.TopLimit:
		return fmt.Errorf("%w: bottom limit %v not below top limit %v", ErrInvalid, c.BottomLimit, c.TopLimit)
	case c.SpawnSafeRadius < 0:
		return fmt.Errorf("%w: spawn safe radius is negative", ErrInvalid)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive", ErrInvalid)
	}
	return nil
}

// TickDuration returns the wall-clock length of one tick.
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
