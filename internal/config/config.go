// Package config loads the gift configuration: who it is for, how to log in,
// game tuning and the text of every present.
//
// Values are layered: Defaults, then the YAML file, then a .env file in the
// working directory, then PIXELGIFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPath names the variable that points at the config file.
const EnvPath = "PIXELGIFT_CONFIG"

// Present is the reward unlocked by one game.
type Present struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// FlowerMatchConfig tunes the memory game.
type FlowerMatchConfig struct {
	Pairs         int           `yaml:"pairs"`
	MismatchDelay time.Duration `yaml:"mismatch_delay"`
}

// CupcakeCatchConfig tunes the catcher game.
type CupcakeCatchConfig struct {
	Duration time.Duration `yaml:"duration"`
	WinScore int           `yaml:"win_score"`
	// InstantWinScore ends the round early with a win.
	InstantWinScore int `yaml:"instant_win_score"`
}

// HeartJumpConfig tunes the platform game.
type HeartJumpConfig struct {
	Duration    time.Duration `yaml:"duration"`
	Hearts      int           `yaml:"hearts"`
	HeartsToWin int           `yaml:"hearts_to_win"`
}

// Letter is the special reward shown when every game is done.
type Letter struct {
	Title       string `yaml:"title"`
	Body        string `yaml:"body"`
	Personalize bool   `yaml:"personalize"`
}

// Labels is the fixed text of the login screen and the hub menu.
type Labels struct {
	Greeting      string `yaml:"greeting"`
	HubTagline    string `yaml:"hub_tagline"`
	SpecialReward string `yaml:"special_reward"`
	AllComplete   string `yaml:"all_complete"`
	History       string `yaml:"history"`
	Reset         string `yaml:"reset"`
	ResetConfirm  string `yaml:"reset_confirm"`
	Exit          string `yaml:"exit"`
}

// DefaultLabels returns the English labels.
func DefaultLabels() Labels {
	return Labels{
		Greeting:      "A gift for",
		HubTagline:    "Your special adventure awaits!",
		SpecialReward: "♥ See my special reward ♥",
		AllComplete:   "You completed every game!",
		History:       "Completion history",
		Reset:         "Reset all progress",
		ResetConfirm:  "Press Enter again to reset everything",
		Exit:          "Exit",
	}
}

// Or fills every empty label from def.
func (l Labels) Or(def Labels) Labels {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&l.Greeting, def.Greeting)
	fill(&l.HubTagline, def.HubTagline)
	fill(&l.SpecialReward, def.SpecialReward)
	fill(&l.AllComplete, def.AllComplete)
	fill(&l.History, def.History)
	fill(&l.Reset, def.Reset)
	fill(&l.ResetConfirm, def.ResetConfirm)
	fill(&l.Exit, def.Exit)
	return l
}

// Config holds everything the program reads at startup.
type Config struct {
	Recipient string `yaml:"recipient"`
	Headline  string `yaml:"headline"`
	Tagline   string `yaml:"tagline"`

	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`

	// PollInterval is the hub's re-read backstop.
	PollInterval time.Duration `yaml:"poll_interval"`
	// TokenWatchInterval is how often the hub checks whether another
	// process moved the change token.
	TokenWatchInterval time.Duration `yaml:"token_watch_interval"`
	// FrameRate is the mini-game tick rate in frames per second.
	FrameRate int `yaml:"frame_rate"`

	FlowerMatch  FlowerMatchConfig  `yaml:"flower_match"`
	CupcakeCatch CupcakeCatchConfig `yaml:"cupcake_catch"`
	HeartJump    HeartJumpConfig    `yaml:"heart_jump"`

	Presents map[string]Present `yaml:"presents"`
	Letter   Letter             `yaml:"letter"`
	Labels   Labels             `yaml:"labels"`

	ReporterURL string `yaml:"reporter_url"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
}

// Defaults returns a Config with every field set.
func Defaults() *Config {
	return &Config{
		Recipient:          "Vanessa",
		Headline:           "Felicidades mi Amooor 03/04/2025",
		Tagline:            "Descubre las sorpresas que te esperan!",
		Username:           "Vanessa",
		Password:           "13112024",
		PollInterval:       time.Second,
		TokenWatchInterval: 250 * time.Millisecond,
		FrameRate:          30,
		FlowerMatch: FlowerMatchConfig{
			Pairs:         6,
			MismatchDelay: time.Second,
		},
		CupcakeCatch: CupcakeCatchConfig{
			Duration:        30 * time.Second,
			WinScore:        15,
			InstantWinScore: 20,
		},
		HeartJump: HeartJumpConfig{
			Duration:    60 * time.Second,
			Hearts:      15,
			HeartsToWin: 12,
		},
		Presents: map[string]Present{
			"flowerMatch": {
				Title:   "Special Message",
				Content: "You're the most beautiful flower in my garden! I love you more each day. ♥",
			},
			"cupcakeCatch": {
				Title:   "Date Coupon",
				Content: "Redeem for one fancy dinner date of your choice! I'll take you anywhere you want to go.",
			},
			"heartJump": {
				Title:   "Sweet Surprise",
				Content: "Check under your pillow tonight for a special surprise I've hidden for you!",
			},
		},
		Letter: Letter{
			Title: "¡Completaste todos los juegos!",
			Body: "You played every game and unlocked every present. " +
				"Thank you for being my favourite player. Happy anniversary! ♥",
		},
		Labels:   DefaultLabels(),
		LogLevel: "info",
	}
}

// DefaultPath returns the config file location: $PIXELGIFT_CONFIG, or
// $XDG_CONFIG_HOME/pixelgift/config.yaml, or ~/.config/pixelgift/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "pixelgift.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pixelgift", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// .env and environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideString(&cfg.Recipient, "PIXELGIFT_RECIPIENT")
	overrideString(&cfg.Username, "PIXELGIFT_USERNAME")
	overrideString(&cfg.Password, "PIXELGIFT_PASSWORD")
	overrideString(&cfg.PasswordHash, "PIXELGIFT_PASSWORD_HASH")
	overrideDuration(&cfg.PollInterval, "PIXELGIFT_POLL_INTERVAL")
	overrideDuration(&cfg.TokenWatchInterval, "PIXELGIFT_TOKEN_WATCH_INTERVAL")
	overrideInt(&cfg.FrameRate, "PIXELGIFT_FRAME_RATE")
	overrideInt(&cfg.FlowerMatch.Pairs, "PIXELGIFT_FLOWER_PAIRS")
	overrideDuration(&cfg.CupcakeCatch.Duration, "PIXELGIFT_CUPCAKE_DURATION")
	overrideInt(&cfg.CupcakeCatch.WinScore, "PIXELGIFT_CUPCAKE_WIN_SCORE")
	overrideDuration(&cfg.HeartJump.Duration, "PIXELGIFT_HEART_DURATION")
	overrideInt(&cfg.HeartJump.HeartsToWin, "PIXELGIFT_HEARTS_TO_WIN")
	overrideString(&cfg.ReporterURL, "PIXELGIFT_REPORTER_URL")
	overrideString(&cfg.LogFile, "PIXELGIFT_LOG_FILE")
	overrideString(&cfg.LogLevel, "PIXELGIFT_LOG_LEVEL")
	overrideBool(&cfg.Letter.Personalize, "PIXELGIFT_PERSONALIZE_LETTER")
}

// Validate rejects settings the games cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Username == "":
		return errors.New("config: username must not be empty")
	case c.Password == "" && c.PasswordHash == "":
		return errors.New("config: password or password_hash is required")
	case c.PollInterval <= 0:
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	case c.TokenWatchInterval <= 0:
		return fmt.Errorf("config: token_watch_interval must be positive, got %s", c.TokenWatchInterval)
	case c.FrameRate < 1 || c.FrameRate > 120:
		return fmt.Errorf("config: frame_rate must be in 1..120, got %d", c.FrameRate)
	case c.FlowerMatch.Pairs < 2 || c.FlowerMatch.Pairs > 8:
		return fmt.Errorf("config: flower_match.pairs must be in 2..8, got %d", c.FlowerMatch.Pairs)
	case c.CupcakeCatch.Duration <= 0:
		return fmt.Errorf("config: cupcake_catch.duration must be positive, got %s", c.CupcakeCatch.Duration)
	case c.CupcakeCatch.WinScore <= 0:
		return fmt.Errorf("config: cupcake_catch.win_score must be positive, got %d", c.CupcakeCatch.WinScore)
	case c.CupcakeCatch.InstantWinScore > 0 && c.CupcakeCatch.InstantWinScore < c.CupcakeCatch.WinScore:
		return fmt.Errorf("config: cupcake_catch.instant_win_score (%d) is below win_score (%d)",
			c.CupcakeCatch.InstantWinScore, c.CupcakeCatch.WinScore)
	case c.HeartJump.Duration <= 0:
		return fmt.Errorf("config: heart_jump.duration must be positive, got %s", c.HeartJump.Duration)
	case c.HeartJump.Hearts <= 0:
		return fmt.Errorf("config: heart_jump.hearts must be positive, got %d", c.HeartJump.Hearts)
	case c.HeartJump.HeartsToWin > c.HeartJump.Hearts:
		return fmt.Errorf("config: heart_jump.hearts_to_win (%d) exceeds hearts (%d)",
			c.HeartJump.HeartsToWin, c.HeartJump.Hearts)
	}
	return nil
}

// Present returns the present for the game with the given storage id.
func (c *Config) Present(game string) (Present, bool) {
	p, ok := c.Presents[game]
	return p, ok
}

// SlogLevel parses LogLevel, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid config override", "key", envKey, "value", val)
		}
	}
}

func overrideDuration(field *time.Duration, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*field = d
		} else {
			slog.Warn("invalid config override", "key", envKey, "value", val)
		}
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			slog.Warn("invalid config override", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
