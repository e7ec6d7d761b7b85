package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

// ProgressBar is a segmented bar with one segment per game.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, done, total, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

// View renders the bar followed by "done/total".
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Total <= 0 {
		return result
	}

	count := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := p.Width - lipgloss.Width(result) - len(count)
	segWidth := barWidth / p.Total
	if segWidth < 2 {
		segWidth = 2
	}

	filled := lipgloss.NewStyle().Background(theme.Primary)
	empty := lipgloss.NewStyle().Background(theme.Border)
	segments := make([]string, p.Total)
	for i := range segments {
		cell := strings.Repeat(" ", segWidth-1)
		if i < p.Done {
			segments[i] = filled.Render(cell)
		} else {
			segments[i] = empty.Render(cell)
		}
	}
	result += strings.Join(segments, " ")
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
	return result
}
