package cupcakecatch

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

const (
	cupcakeGlyph = "◓"
	skyGlyph     = " "
	basketGlyph  = "▀"
)

// View draws the sky with its cupcakes and the basket on the bottom row.
func (m *Model) View() string {
	grid := make([][]string, Height)
	for y := range grid {
		row := make([]string, Width)
		for x := range row {
			row[x] = skyGlyph
		}
		grid[y] = row
	}

	cake := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	for _, c := range m.cupcakes {
		y := int(c.y)
		if y >= 0 && y < Height-1 {
			grid[y][c.x] = cake.Render(cupcakeGlyph)
		}
	}

	basket := lipgloss.NewStyle().Foreground(theme.Accent)
	for x := m.basket; x < m.basket+BasketWidth; x++ {
		grid[Height-1][x] = basket.Render(basketGlyph)
	}

	lines := make([]string, Height)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(lines, "\n"))
}
