package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.TickDuration(); got != time.Second/60 {
		t.Errorf("tick duration = %v, want %v", got, time.Second/60)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.ScreenWidth = 0 }},
		{"negative height", func(c *Config) { c.ScreenHeight = -1 }},
		{"zero movement speed", func(c *Config) { c.MovementSpeed = 0 }},
		{"zero bullet speed", func(c *Config) { c.BulletSpeed = 0 }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative enemy count", func(c *Config) { c.StartingEnemyCount = -2 }},
		{"inverted horizontal limits", func(c *Config) { c.LeftLimit, c.RightLimit = 500, 100 }},
		{"inverted vertical limits", func(c *Config) { c.BottomLimit, c.TopLimit = 50, 50 }},
		{"negative safe radius", func(c *Config) { c.SpawnSafeRadius = -1 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	t.Setenv("GAME_SCREEN_WIDTH", "1024")
	t.Setenv("GAME_BULLET_SPEED", "7.5")
	t.Setenv("GAME_STARTING_ENEMY_COUNT", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScreenWidth != 1024 {
		t.Errorf("ScreenWidth = %v, want 1024", cfg.ScreenWidth)
	}
	if cfg.BulletSpeed != 7.5 {
		t.Errorf("BulletSpeed = %v, want 7.5", cfg.BulletSpeed)
	}
	if cfg.StartingEnemyCount != 6 {
		t.Errorf("StartingEnemyCount = %d, want 6", cfg.StartingEnemyCount)
	}
	if cfg.ScreenHeight != Default().ScreenHeight {
		t.Errorf("ScreenHeight changed without override: %v", cfg.ScreenHeight)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.env")
	if err := os.WriteFile(path, []byte("GAME_MOVEMENT_SPEED=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("GAME_MOVEMENT_SPEED") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MovementSpeed != 3 {
		t.Errorf("MovementSpeed = %v, want 3", cfg.MovementSpeed)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GAME_TICK_RATE", "fast")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric tick rate")
	}
}

func TestLoadValidates(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GAME_LEFT_LIMIT", "900")
	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("SPLITSHOT_TEST_KEY", "set")
	if got := GetEnv("SPLITSHOT_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want %q", got, "set")
	}
	if got := GetEnv("SPLITSHOT_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want fallback", got)
	}
}
