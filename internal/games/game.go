// Package games defines what the game screen needs from a mini-game model.
// The models themselves live in the subpackages and know nothing about
// storage or navigation: they advance by frames, take key presses and end
// as won or lost.
package games

import (
	"math/rand/v2"
	"time"
)

// Status is the state of one round.
type Status int

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "unknown"
}

// Over reports whether the round has ended.
func (s Status) Over() bool { return s != StatusPlaying }

// Model is a running mini-game round.
type Model interface {
	// Step advances the round by dt of game time.
	Step(dt time.Duration)
	// HandleKey applies a key press, given as tea.Key.String().
	HandleKey(key string)
	Status() Status
	// Score is the number reported on a win.
	Score() int
	// HUD is the one-line status shown above the board.
	HUD() string
	// View renders the board.
	View() string
	// Reason explains a loss.
	Reason() string
}

// Info describes a game on its instructions view.
type Info struct {
	Title        string
	Instructions []string
	Goal         string
	ScoreLabel   string
}

// NewRand returns a seeded generator. A zero seed picks a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
