// Package reward shows the special reward: the letter unlocked by
// completing every game.
package reward

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/abhisek/pixelgift/internal/router"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/layout"
	"github.com/abhisek/pixelgift/internal/ui/theme"
)

const writeTimeout = 45 * time.Second

// Writer produces the letter.
type Writer interface {
	Write(ctx context.Context, in rewards.LetterInput) rewards.Letter
}

type letterMsg struct {
	letter rewards.Letter
}

const heartArt = ` ▄▀▀▄ ▄▀▀▄
 █   ▀   █
  ▀▄   ▄▀
    ▀▄▀`

// RewardScreen writes the letter in the background and shows it.
type RewardScreen struct {
	writer Writer
	input  rewards.LetterInput

	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	letter  *rewards.Letter
}

var _ screen.Screen = (*RewardScreen)(nil)
var _ screen.KeyHintProvider = (*RewardScreen)(nil)
var _ screen.Closer = (*RewardScreen)(nil)

// New creates the reward screen.
func New(w Writer, in rewards.LetterInput) *RewardScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &RewardScreen{
		writer: w,
		input:  in,
		ctx:    ctx,
		cancel: cancel,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Points),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *RewardScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.write())
}

func (s *RewardScreen) write() tea.Cmd {
	ctx, w, in := s.ctx, s.writer, s.input
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, writeTimeout)
		defer cancel()
		return letterMsg{letter: w.Write(ctx, in)}
	}
}

func (s *RewardScreen) Title() string {
	return "Premio Especial"
}

func (s *RewardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to hub"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close abandons a letter still being written.
func (s *RewardScreen) Close() {
	s.cancel()
}

func (s *RewardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case letterMsg:
		l := msg.letter
		s.letter = &l
		return s, nil

	case spinner.TickMsg:
		if s.letter != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "space", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *RewardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("🏆 You completed every game! 🏆"),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render("Here is your special reward!"),
		"",
		lipgloss.NewStyle().Foreground(theme.Primary).Render(heartArt),
		"",
	)

	if s.letter == nil {
		sections = append(sections, s.spinner.View()+" "+
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("Writing your letter..."))
	} else {
		sections = append(sections, components.Panel(renderLetter(*s.letter, cw-6), cw, true))
	}

	if len(s.input.Presents) > 0 {
		var names []string
		for _, p := range s.input.Presents {
			names = append(names, p.Title)
		}
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("Presents unlocked: "+strings.Join(names, " · ")))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderLetter(l rewards.Letter, width int) string {
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(l.Title)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(l.Body)
	return title + "\n\n" + body
}
