// Package rewards holds what the player unlocks: one present per game and
// the letter shown once every game is complete.
package rewards

import (
	"fmt"

	"github.com/abhisek/pixelgift/internal/config"
	"github.com/abhisek/pixelgift/internal/progress"
)

// Present is the reward for one game.
type Present struct {
	Game    progress.GameID
	Title   string
	Content string
}

// Entry is a present as the hub shows it.
type Entry struct {
	Present
	Unlocked bool
}

// LockedHint is the text shown in place of a locked present.
func (e Entry) LockedHint() string {
	return fmt.Sprintf("Complete %s to unlock!", e.Game.DisplayName())
}

// Catalogue maps each game to its present.
type Catalogue struct {
	presents map[progress.GameID]Present
}

// NewCatalogue builds a catalogue from configured presents. Keys are parsed
// as game ids; unknown keys are ignored and missing games get a generic
// present.
func NewCatalogue(cfg map[string]config.Present) Catalogue {
	c := Catalogue{presents: make(map[progress.GameID]Present, len(progress.AllGames))}
	for key, p := range cfg {
		id, err := progress.ParseGameID(key)
		if err != nil {
			continue
		}
		c.presents[id] = Present{Game: id, Title: p.Title, Content: p.Content}
	}
	for _, id := range progress.AllGames {
		if _, ok := c.presents[id]; !ok {
			c.presents[id] = Present{Game: id, Title: "Surprise", Content: "A little something, just for you."}
		}
	}
	return c
}

// For returns the present of game id.
func (c Catalogue) For(id progress.GameID) Present {
	return c.presents[id]
}

// Entries lists every present in hub order with its unlock state.
func (c Catalogue) Entries(r progress.RewardState) []Entry {
	out := make([]Entry, 0, len(progress.AllGames))
	for _, id := range progress.AllGames {
		out = append(out, Entry{Present: c.presents[id], Unlocked: r.Unlocked[id]})
	}
	return out
}

// Presents lists every present in hub order.
func (c Catalogue) Presents() []Present {
	out := make([]Present, 0, len(progress.AllGames))
	for _, id := range progress.AllGames {
		out = append(out, c.presents[id])
	}
	return out
}
