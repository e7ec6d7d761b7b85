package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.PollInterval != time.Second {
		t.Errorf("expected PollInterval=1s, got %s", cfg.PollInterval)
	}
	if cfg.CupcakeCatch.WinScore != 15 {
		t.Errorf("expected WinScore=15, got %d", cfg.CupcakeCatch.WinScore)
	}
	if cfg.HeartJump.HeartsToWin != 12 || cfg.HeartJump.Hearts != 15 {
		t.Errorf("expected 12 of 15 hearts, got %d of %d", cfg.HeartJump.HeartsToWin, cfg.HeartJump.Hearts)
	}
	if cfg.FlowerMatch.Pairs != 6 {
		t.Errorf("expected 6 pairs, got %d", cfg.FlowerMatch.Pairs)
	}
	for _, game := range []string{"flowerMatch", "cupcakeCatch", "heartJump"} {
		if _, ok := cfg.Present(game); !ok {
			t.Errorf("missing default present for %s", game)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Username != Defaults().Username {
		t.Errorf("expected default username, got %q", cfg.Username)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
recipient: Ana
username: ana
password_hash: "$2a$10$abc"
poll_interval: 2s
cupcake_catch:
  win_score: 10
presents:
  heartJump:
    title: Breakfast in bed
    content: Tomorrow morning.
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recipient != "Ana" || cfg.Username != "ana" {
		t.Errorf("got recipient=%q username=%q", cfg.Recipient, cfg.Username)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("expected PollInterval=2s, got %s", cfg.PollInterval)
	}
	if cfg.CupcakeCatch.WinScore != 10 {
		t.Errorf("expected WinScore=10, got %d", cfg.CupcakeCatch.WinScore)
	}
	// Fields the file leaves out keep their defaults.
	if cfg.CupcakeCatch.Duration != 30*time.Second {
		t.Errorf("expected Duration=30s (default), got %s", cfg.CupcakeCatch.Duration)
	}
	if p, _ := cfg.Present("heartJump"); p.Title != "Breakfast in bed" {
		t.Errorf("heartJump present = %+v", p)
	}
	if p, _ := cfg.Present("flowerMatch"); p.Title != "Special Message" {
		t.Errorf("flowerMatch present should keep default, got %+v", p)
	}
}

func TestLoadLabels(t *testing.T) {
	path := writeConfig(t, `
labels:
  greeting: Un regalo para
  special_reward: "♥ Ver mi premio especial ♥"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Labels.SpecialReward != "♥ Ver mi premio especial ♥" {
		t.Errorf("special_reward = %q", cfg.Labels.SpecialReward)
	}
	if cfg.Labels.Greeting != "Un regalo para" {
		t.Errorf("greeting = %q", cfg.Labels.Greeting)
	}
	if cfg.Labels.Exit != DefaultLabels().Exit {
		t.Errorf("unset exit label should keep its default, got %q", cfg.Labels.Exit)
	}

	filled := Labels{History: "Historial"}.Or(DefaultLabels())
	if filled.History != "Historial" || filled.Reset != DefaultLabels().Reset {
		t.Errorf("Or = %+v", filled)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "poll_interval: [\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PIXELGIFT_USERNAME", "bea")
	t.Setenv("PIXELGIFT_CUPCAKE_WIN_SCORE", "20")
	t.Setenv("PIXELGIFT_POLL_INTERVAL", "500ms")
	t.Setenv("PIXELGIFT_PERSONALIZE_LETTER", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Username != "bea" {
		t.Errorf("expected Username=bea, got %q", cfg.Username)
	}
	if cfg.CupcakeCatch.WinScore != 20 {
		t.Errorf("expected WinScore=20, got %d", cfg.CupcakeCatch.WinScore)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("expected PollInterval=500ms, got %s", cfg.PollInterval)
	}
	if !cfg.Letter.Personalize {
		t.Error("expected Personalize=true")
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("PIXELGIFT_CUPCAKE_WIN_SCORE", "lots")
	t.Setenv("PIXELGIFT_POLL_INTERVAL", "soon")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CupcakeCatch.WinScore != 15 {
		t.Errorf("expected WinScore=15 (default) with invalid env, got %d", cfg.CupcakeCatch.WinScore)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected PollInterval=1s (default) with invalid env, got %s", cfg.PollInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty username", func(c *Config) { c.Username = "" }},
		{"no password", func(c *Config) { c.Password = ""; c.PasswordHash = "" }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"too many pairs", func(c *Config) { c.FlowerMatch.Pairs = 9 }},
		{"unreachable hearts", func(c *Config) { c.HeartJump.HeartsToWin = 16 }},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"zero cupcake duration", func(c *Config) { c.CupcakeCatch.Duration = 0 }},
		{"zero cupcake win score", func(c *Config) { c.CupcakeCatch.WinScore = 0; c.CupcakeCatch.InstantWinScore = 0 }},
		{"negative heart duration", func(c *Config) { c.HeartJump.Duration = -time.Second }},
		{"no hearts", func(c *Config) { c.HeartJump.Hearts = 0; c.HeartJump.HeartsToWin = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "pixelgift", "config.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv(EnvPath, "/etc/gift.yaml")
	if got := DefaultPath(); got != "/etc/gift.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "debug"
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug, got %s", cfg.SlogLevel())
	}
	cfg.LogLevel = "chatty"
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("expected info fallback, got %s", cfg.SlogLevel())
	}
}
