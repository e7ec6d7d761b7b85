// Package login is the credential gate in front of the hub.
package login

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/auth"
	"github.com/abhisek/pixelgift/internal/router"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/layout"
	"github.com/abhisek/pixelgift/internal/ui/theme"
)

// Authenticator checks credentials and persists the signed-in flag.
type Authenticator interface {
	Login(username, password string) error
}

const (
	fieldUser = iota
	fieldPass
)

// LoginScreen asks for the username and password.
type LoginScreen struct {
	auth     Authenticator
	next     func() screen.Screen
	greeting string

	fields  [2]components.TextInput
	focused int
	errMsg  string
	done    bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen. next builds the screen shown after a
// successful login and is called at most once.
func New(a Authenticator, greeting string, next func() screen.Screen) *LoginScreen {
	s := &LoginScreen{
		auth:     a,
		next:     next,
		greeting: greeting,
		fields: [2]components.TextInput{
			components.NewTextInput("Username", "who is this gift for?", false, 64),
			components.NewTextInput("Password", "our special date", true, 64),
		},
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.fields[fieldUser].Focus()
}

func (s *LoginScreen) Title() string {
	return "Login"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down", "shift+tab", "up":
			return s, s.focus(1 - s.focused)
		case "enter":
			if s.focused == fieldUser {
				return s, s.focus(fieldPass)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focused], cmd = s.fields[s.focused].Update(msg)
	return s, cmd
}

func (s *LoginScreen) focus(i int) tea.Cmd {
	s.fields[s.focused].Blur()
	s.focused = i
	return s.fields[i].Focus()
}

func (s *LoginScreen) submit() tea.Cmd {
	if s.done {
		return nil
	}
	err := s.auth.Login(s.fields[fieldUser].Value(), s.fields[fieldPass].Value())
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			s.errMsg = auth.ErrBadCredentials.Error()
		} else {
			s.errMsg = err.Error()
		}
		s.fields[fieldPass].Reset()
		return nil
	}

	s.done = true
	s.errMsg = ""
	next := s.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 44 {
		cw = 44
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("♥ Bienvenida ♥"))
	b.WriteString("\n")
	if s.greeting != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.greeting))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i := range s.fields {
		b.WriteString(s.fields[i].View())
		b.WriteString("\n\n")
	}

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(s.errMsg))
		b.WriteString("\n")
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 3).
		Width(cw).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
