// Package flowermatch is the memory game: flip cards two at a time and find
// every pair of matching flowers.
package flowermatch

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/abhisek/pixelgift/internal/games"
)

// Columns is the board width in cards.
const Columns = 4

// Info is shown on the instructions view.
var Info = games.Info{
	Title: "Pixel Flower Match",
	Instructions: []string{
		"Flip two cards at a time to find matching flowers.",
		"Use the arrow keys to move and Enter or Space to flip.",
		"Cards that don't match turn back over after a moment.",
	},
	Goal:       "Match every pair of flowers!",
	ScoreLabel: "Moves",
}

// Config tunes a round.
type Config struct {
	Pairs         int
	MismatchDelay time.Duration
	// CompleteDelay is the pause between the last match and the win, so
	// the finished board is visible.
	CompleteDelay time.Duration
}

// DefaultConfig returns the standard twelve-card board.
func DefaultConfig() Config {
	return Config{Pairs: 6, MismatchDelay: time.Second, CompleteDelay: time.Second}
}

// Model is one round.
type Model struct {
	cfg     Config
	cards   []int
	matched []bool
	flipped []int
	cursor  int
	moves   int
	status  games.Status

	mismatchLeft time.Duration
	completeLeft time.Duration
	finishing    bool
}

var _ games.Model = (*Model)(nil)

// New deals a shuffled board.
func New(cfg Config, rng *rand.Rand) *Model {
	if cfg.Pairs < 1 {
		cfg.Pairs = DefaultConfig().Pairs
	}
	if cfg.Pairs > len(Palette) {
		cfg.Pairs = len(Palette)
	}
	cards := make([]int, 0, cfg.Pairs*2)
	for i := 0; i < cfg.Pairs; i++ {
		cards = append(cards, i, i)
	}
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	return &Model{
		cfg:     cfg,
		cards:   cards,
		matched: make([]bool, len(cards)),
	}
}

// Flip turns over card i. It reports whether the flip was allowed: face-up,
// matched and out-of-range cards are ignored, as is any flip while two
// unmatched cards are showing.
func (m *Model) Flip(i int) bool {
	if m.status.Over() || m.finishing || i < 0 || i >= len(m.cards) {
		return false
	}
	if m.matched[i] || slices.Contains(m.flipped, i) || len(m.flipped) >= 2 {
		return false
	}
	m.flipped = append(m.flipped, i)
	if len(m.flipped) < 2 {
		return true
	}

	m.moves++
	a, b := m.flipped[0], m.flipped[1]
	if m.cards[a] == m.cards[b] {
		m.matched[a], m.matched[b] = true, true
		m.flipped = m.flipped[:0]
		if m.allMatched() {
			m.finishing = true
			m.completeLeft = m.cfg.CompleteDelay
		}
		return true
	}
	m.mismatchLeft = m.cfg.MismatchDelay
	return true
}

// Step runs the mismatch and completion timers.
func (m *Model) Step(dt time.Duration) {
	if m.status.Over() {
		return
	}
	if len(m.flipped) == 2 {
		m.mismatchLeft -= dt
		if m.mismatchLeft <= 0 {
			m.flipped = m.flipped[:0]
		}
	}
	if m.finishing {
		m.completeLeft -= dt
		if m.completeLeft <= 0 {
			m.status = games.StatusWon
		}
	}
}

// HandleKey moves the cursor or flips the card under it.
func (m *Model) HandleKey(key string) {
	n := len(m.cards)
	switch key {
	case "left", "h":
		if m.cursor%Columns > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%Columns < Columns-1 && m.cursor+1 < n {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-Columns >= 0 {
			m.cursor -= Columns
		}
	case "down", "j":
		if m.cursor+Columns < n {
			m.cursor += Columns
		}
	case "enter", "space", " ":
		m.Flip(m.cursor)
	}
}

func (m *Model) allMatched() bool {
	for _, ok := range m.matched {
		if !ok {
			return false
		}
	}
	return true
}

// FaceUp reports whether card i is showing.
func (m *Model) FaceUp(i int) bool {
	return m.matched[i] || slices.Contains(m.flipped, i)
}

// Matches returns the number of pairs found.
func (m *Model) Matches() int {
	n := 0
	for _, ok := range m.matched {
		if ok {
			n++
		}
	}
	return n / 2
}

func (m *Model) Status() games.Status { return m.status }
func (m *Model) Score() int           { return m.moves }
func (m *Model) Reason() string       { return "" }
func (m *Model) Cursor() int          { return m.cursor }
func (m *Model) Cards() int           { return len(m.cards) }

// HUD shows moves and pairs found.
func (m *Model) HUD() string {
	return fmt.Sprintf("Moves: %d   Pairs: %d/%d", m.moves, m.Matches(), m.cfg.Pairs)
}
