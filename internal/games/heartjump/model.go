// Package heartjump is the platform game: jump between platforms and
// collect hearts before time runs out, without falling off the world.
package heartjump

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/pixelgift/internal/gameloop"
	"github.com/abhisek/pixelgift/internal/games"
)

// World geometry, in world units. The view maps these onto cells.
const (
	WorldWidth  = 600.0
	WorldHeight = 420.0
	fallLimit   = 500.0

	playerSize = 32.0
	heartSize  = 24.0
)

// Motion constants, per second. Gravity and speed follow a 60 fps
// reference of 0.8 and 5 units per frame.
const (
	gravity   = 2880.0
	jumpSpeed = 900.0
	moveSpeed = 300.0
	holdTime  = 180 * time.Millisecond
)

// Info is shown on the instructions view.
var Info = games.Info{
	Title: "Heart Jump",
	Instructions: []string{
		"Use the left and right arrow keys to move.",
		"Press Up or Space to jump between platforms.",
		"Collect hearts and don't fall off the bottom!",
	},
	Goal:       "Collect 12 hearts in 60 seconds!",
	ScoreLabel: "Hearts",
}

// Config tunes a round.
type Config struct {
	Duration    time.Duration
	Hearts      int
	HeartsToWin int
}

// DefaultConfig returns the standard round.
func DefaultConfig() Config {
	return Config{Duration: 60 * time.Second, Hearts: 15, HeartsToWin: 12}
}

// Rect is an axis-aligned box in world units.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) overlaps(o Rect) bool {
	return r.X+r.W > o.X && r.X < o.X+o.W && r.Y+r.H > o.Y && r.Y < o.Y+o.H
}

// DefaultPlatforms is the level layout. The first platform is the ground.
func DefaultPlatforms() []Rect {
	return []Rect{
		{X: 0, Y: 400, W: 600, H: 20},
		{X: 150, Y: 300, W: 100, H: 20},
		{X: 320, Y: 250, W: 100, H: 20},
		{X: 100, Y: 200, W: 100, H: 20},
		{X: 300, Y: 150, W: 100, H: 20},
	}
}

type heart struct {
	Rect
	collected bool
}

// Model is one round.
type Model struct {
	cfg       Config
	timer     gameloop.Countdown
	platforms []Rect
	hearts    []heart

	player    Rect
	vy        float64
	grounded  bool
	dir       float64
	holdLeft  time.Duration
	collected int

	status games.Status
	reason string
}

var _ games.Model = (*Model)(nil)

// New builds the level and scatters hearts over the raised platforms.
func New(cfg Config, rng *rand.Rand) *Model {
	m := &Model{
		cfg:       cfg,
		timer:     gameloop.NewCountdown(cfg.Duration),
		platforms: DefaultPlatforms(),
		player:    Rect{X: 50, Y: 400 - playerSize, W: playerSize, H: playerSize},
		grounded:  true,
	}
	raised := m.platforms[1:]
	for i := 0; i < cfg.Hearts; i++ {
		p := raised[rng.IntN(len(raised))]
		m.hearts = append(m.hearts, heart{Rect: Rect{
			X: p.X + rng.Float64()*(p.W-20),
			Y: p.Y - 30,
			W: heartSize,
			H: heartSize,
		}})
	}
	return m
}

// HandleKey starts a move or a jump. Terminals report presses only, so a
// move keeps going for a short hold time after each press or key repeat.
func (m *Model) HandleKey(key string) {
	if m.status.Over() {
		return
	}
	switch key {
	case "left", "a", "h":
		m.dir, m.holdLeft = -1, holdTime
	case "right", "d", "l":
		m.dir, m.holdLeft = 1, holdTime
	case "up", "w", "k", "space", " ":
		m.Jump()
	}
}

// Jump launches the player when standing on a platform.
func (m *Model) Jump() bool {
	if !m.grounded || m.status.Over() {
		return false
	}
	m.vy = -jumpSpeed
	m.grounded = false
	return true
}

// Step integrates motion, resolves landings and pickups and runs the clock.
func (m *Model) Step(dt time.Duration) {
	if m.status.Over() {
		return
	}
	s := dt.Seconds()

	if m.holdLeft > 0 {
		m.player.X += m.dir * moveSpeed * s
		m.holdLeft -= dt
	}
	m.player.X = min(max(m.player.X, 0), WorldWidth-m.player.W)

	prevBottom := m.player.Y + m.player.H
	m.vy += gravity * s
	m.player.Y += m.vy * s
	m.grounded = false
	if m.vy > 0 {
		bottom := m.player.Y + m.player.H
		for _, p := range m.platforms {
			if m.player.X+m.player.W > p.X && m.player.X < p.X+p.W &&
				prevBottom <= p.Y && bottom >= p.Y {
				m.player.Y = p.Y - m.player.H
				m.vy = 0
				m.grounded = true
				break
			}
		}
	}

	if m.player.Y > fallLimit {
		m.status = games.StatusLost
		m.reason = "Oh no, you fell!"
		return
	}

	for i := range m.hearts {
		h := &m.hearts[i]
		if !h.collected && m.player.overlaps(h.Rect) {
			h.collected = true
			m.collected++
		}
	}
	if m.collected >= m.cfg.HeartsToWin {
		m.status = games.StatusWon
		return
	}

	if m.timer.Advance(dt) {
		m.status = games.StatusLost
		m.reason = fmt.Sprintf("Time's up! You collected %d of %d hearts.", m.collected, m.cfg.HeartsToWin)
	}
}

func (m *Model) Status() games.Status { return m.status }
func (m *Model) Score() int           { return m.collected }
func (m *Model) Reason() string       { return m.reason }
func (m *Model) Player() Rect         { return m.player }
func (m *Model) Grounded() bool       { return m.grounded }

// HUD shows hearts collected and the clock.
func (m *Model) HUD() string {
	return fmt.Sprintf("Hearts: %d/%d   Time: %ds", m.collected, m.cfg.HeartsToWin, m.timer.Seconds())
}
