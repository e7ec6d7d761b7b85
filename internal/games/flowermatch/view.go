package flowermatch

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

// Palette holds the flower colours, one per pair.
var Palette = []string{
	"#FF9FF3", // pink
	"#FECA57", // yellow
	"#FF6B6B", // red
	"#1DD1A1", // green
	"#5F27CD", // purple
	"#54A0FF", // blue
	"#FF9F43", // orange
	"#C8D6E5", // silver
}

const (
	cardWidth  = 7
	flowerArt  = " ✿ "
	cardBack   = "░░░"
	matchedArt = " ❀ "
)

// View renders the board as rows of cards.
func (m *Model) View() string {
	rows := make([]string, 0, (len(m.cards)+Columns-1)/Columns)
	for start := 0; start < len(m.cards); start += Columns {
		end := min(start+Columns, len(m.cards))
		cells := make([]string, 0, Columns)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderCard(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderCard(i int) string {
	style := lipgloss.NewStyle().
		Width(cardWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	face := cardBack
	fg := theme.TextDim
	switch {
	case m.matched[i]:
		face = matchedArt
		fg = lipgloss.Color(Palette[m.cards[i]])
	case m.FaceUp(i):
		face = flowerArt
		fg = lipgloss.Color(Palette[m.cards[i]])
	}
	if i == m.cursor {
		style = style.BorderForeground(theme.Highlight)
	}
	return style.Foreground(fg).Bold(true).Render(face)
}
