// Package progress owns the persisted completion record of the three
// mini-games and the rewards derived from it.
package progress

import (
	"errors"
	"fmt"
)

// GameID identifies a mini-game. The set is closed: only the constants below
// are valid, and every store operation rejects anything else.
type GameID string

const (
	FlowerMatch  GameID = "flowerMatch"
	CupcakeCatch GameID = "cupcakeCatch"
	HeartJump    GameID = "heartJump"
)

// AllGames lists every game in hub display order.
var AllGames = []GameID{FlowerMatch, CupcakeCatch, HeartJump}

// ErrUnknownGame is returned when a string does not name a game.
var ErrUnknownGame = errors.New("unknown game")

// Valid reports whether id is one of the known games.
func (id GameID) Valid() bool {
	switch id {
	case FlowerMatch, CupcakeCatch, HeartJump:
		return true
	}
	return false
}

// DisplayName returns the title shown in the hub.
func (id GameID) DisplayName() string {
	switch id {
	case FlowerMatch:
		return "Pixel Flower Match"
	case CupcakeCatch:
		return "Cupcake Catch"
	case HeartJump:
		return "Heart Jump"
	}
	return string(id)
}

// ParseGameID converts a stored or user-supplied identifier. Both the
// camelCase storage form ("heartJump") and the kebab-case route form
// ("heart-jump") are accepted.
func ParseGameID(s string) (GameID, error) {
	switch s {
	case "flowerMatch", "flower-match", "pixel-flower-match":
		return FlowerMatch, nil
	case "cupcakeCatch", "cupcake-catch":
		return CupcakeCatch, nil
	case "heartJump", "heart-jump":
		return HeartJump, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGame, s)
}
