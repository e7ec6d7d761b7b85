package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pixelgift/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that need to know when they are back
// on top of the stack after the screen above them was popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Closer is implemented by screens that own timers or loops. Close is
// called once when the screen leaves the stack.
type Closer interface {
	Close()
}
