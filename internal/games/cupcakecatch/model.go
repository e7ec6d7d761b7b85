// Package cupcakecatch is the catcher game: move the basket to catch falling
// cupcakes before the timer runs out.
package cupcakecatch

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/pixelgift/internal/gameloop"
	"github.com/abhisek/pixelgift/internal/games"
)

// Board size in cells.
const (
	Width       = 28
	Height      = 12
	BasketWidth = 5
	basketStep  = 2
)

// Info is shown on the instructions view.
var Info = games.Info{
	Title: "Cupcake Catch",
	Instructions: []string{
		"Cupcakes are falling from the sky!",
		"Move the basket with the arrow keys (or A and D).",
		"Catch as many as you can before time runs out.",
	},
	Goal:       "Catch at least 15 cupcakes in 30 seconds!",
	ScoreLabel: "Cupcakes",
}

// Config tunes a round.
type Config struct {
	Duration        time.Duration
	WinScore        int
	InstantWinScore int
	// FallSpeed is in rows per second.
	FallSpeed  float64
	SpawnEvery time.Duration
}

// DefaultConfig returns the standard 30 second round.
func DefaultConfig() Config {
	return Config{
		Duration:        30 * time.Second,
		WinScore:        15,
		InstantWinScore: 20,
		FallSpeed:       6,
		SpawnEvery:      700 * time.Millisecond,
	}
}

type cupcake struct {
	x int
	y float64
}

// Model is one round.
type Model struct {
	cfg      Config
	rng      *rand.Rand
	timer    gameloop.Countdown
	basket   int
	cupcakes []cupcake
	spawnIn  time.Duration
	score    int
	missed   int
	status   games.Status
	reason   string
}

var _ games.Model = (*Model)(nil)

// New starts a round with the basket centred.
func New(cfg Config, rng *rand.Rand) *Model {
	if cfg.FallSpeed <= 0 {
		cfg.FallSpeed = DefaultConfig().FallSpeed
	}
	if cfg.SpawnEvery <= 0 {
		cfg.SpawnEvery = DefaultConfig().SpawnEvery
	}
	return &Model{
		cfg:    cfg,
		rng:    rng,
		timer:  gameloop.NewCountdown(cfg.Duration),
		basket: (Width - BasketWidth) / 2,
	}
}

// Step moves cupcakes, spawns new ones and runs the clock.
func (m *Model) Step(dt time.Duration) {
	if m.status.Over() {
		return
	}

	m.spawnIn -= dt
	for m.spawnIn <= 0 {
		m.spawnAt(m.rng.IntN(Width))
		m.spawnIn += m.cfg.SpawnEvery
	}

	fall := m.cfg.FallSpeed * dt.Seconds()
	kept := m.cupcakes[:0]
	for _, c := range m.cupcakes {
		c.y += fall
		switch {
		case c.y >= Height-1 && m.inBasket(c.x):
			m.score++
		case c.y >= Height:
			m.missed++
		default:
			kept = append(kept, c)
		}
	}
	m.cupcakes = kept

	if m.cfg.InstantWinScore > 0 && m.score >= m.cfg.InstantWinScore {
		m.status = games.StatusWon
		return
	}
	if m.timer.Advance(dt) {
		if m.score >= m.cfg.WinScore {
			m.status = games.StatusWon
			return
		}
		m.status = games.StatusLost
		m.reason = fmt.Sprintf("Time's up! You caught %d cupcakes but needed %d.", m.score, m.cfg.WinScore)
	}
}

func (m *Model) spawnAt(x int) {
	m.cupcakes = append(m.cupcakes, cupcake{x: x})
}

func (m *Model) inBasket(x int) bool {
	return x >= m.basket && x < m.basket+BasketWidth
}

// HandleKey moves the basket.
func (m *Model) HandleKey(key string) {
	if m.status.Over() {
		return
	}
	switch key {
	case "left", "a", "h":
		m.basket = max(0, m.basket-basketStep)
	case "right", "d", "l":
		m.basket = min(Width-BasketWidth, m.basket+basketStep)
	}
}

func (m *Model) Status() games.Status { return m.status }
func (m *Model) Score() int           { return m.score }
func (m *Model) Reason() string       { return m.reason }
func (m *Model) Basket() int          { return m.basket }
func (m *Model) Missed() int          { return m.missed }

// HUD shows the score and the clock.
func (m *Model) HUD() string {
	return fmt.Sprintf("Cupcakes: %d/%d   Time: %ds", m.score, m.cfg.WinScore, m.timer.Seconds())
}
