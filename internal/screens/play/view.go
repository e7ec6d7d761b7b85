package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/games"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/theme"
)

func (s *GameScreen) View(width, height int) string {
	var content string
	switch s.phase {
	case phasePlaying:
		content = s.renderBoard(width)
	case phaseResult:
		if s.status == games.StatusWon {
			content = s.renderWin(width)
		} else {
			content = s.renderLoss(width)
		}
	default:
		content = s.renderIntro(width)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *GameScreen) renderIntro(width int) string {
	cw := components.ContentWidth(width)
	info := s.round.Info

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(info.Title))
	b.WriteString("\n\n")
	for _, line := range info.Instructions {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("• " + line))
		b.WriteString("\n")
	}
	if info.Goal != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(info.Goal))
		b.WriteString("\n")
	}

	panel := components.Panel(b.String(), cw, false)
	start := components.Choice("Start", true, cw/2)
	return lipgloss.JoinVertical(lipgloss.Center, panel, "", start)
}

func (s *GameScreen) renderBoard(width int) string {
	hud := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(s.model.HUD())
	return lipgloss.JoinVertical(lipgloss.Center, hud, "", s.model.View())
}

func (s *GameScreen) renderWin(width int) string {
	cw := components.ContentWidth(width)
	label := s.round.Info.ScoreLabel
	if label == "" {
		label = "Score"
	}

	var sections []string
	sections = append(sections,
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("🏆 Victory! 🏆"),
		lipgloss.NewStyle().Foreground(theme.Primary).Render("Congratulations! You've completed the game!"),
		lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("%s: %d", label, s.outcome.Score)),
		"",
	)

	present := lipgloss.NewStyle().Foreground(theme.Glow).Bold(true).Render("🎁 "+s.present.Title) +
		"\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(s.present.Content)
	sections = append(sections, components.Panel(present, cw, true), "")

	if !s.outcome.Saved {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true).
			Render("There was an error saving your progress. Please try again."), "")
	} else if s.autoReturn {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("Returning to the hub..."), "")
	}

	sections = append(sections, s.renderActions(cw))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (s *GameScreen) renderLoss(width int) string {
	cw := components.ContentWidth(width)
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Game Over"),
		"",
		lipgloss.NewStyle().Foreground(theme.Text).Render(s.reason),
		"",
		s.renderActions(cw),
	)
}

func (s *GameScreen) renderActions(cw int) string {
	rows := make([]string, 0, len(s.actions.Items))
	for i, item := range s.actions.Items {
		rows = append(rows, components.Choice(item.Label, i == s.actions.Selected, cw/2))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
