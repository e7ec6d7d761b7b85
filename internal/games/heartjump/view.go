package heartjump

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

// View grid size. One cell is 10x30 world units.
const (
	Cols = 60
	Rows = 14

	cellW = WorldWidth / Cols
	cellH = WorldHeight / Rows
)

func toCell(x, y float64) (int, int) {
	cx := min(max(int(x/cellW), 0), Cols-1)
	cy := min(max(int(y/cellH), 0), Rows-1)
	return cx, cy
}

// View draws platforms, uncollected hearts and the player.
func (m *Model) View() string {
	grid := make([][]string, Rows)
	for y := range grid {
		row := make([]string, Cols)
		for x := range row {
			row[x] = " "
		}
		grid[y] = row
	}

	platform := lipgloss.NewStyle().Foreground(theme.Secondary)
	for _, p := range m.platforms {
		x0, y := toCell(p.X, p.Y)
		x1, _ := toCell(p.X+p.W-1, p.Y)
		for x := x0; x <= x1; x++ {
			grid[y][x] = platform.Render("▀")
		}
	}

	heartStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	for _, h := range m.hearts {
		if h.collected {
			continue
		}
		x, y := toCell(h.X+h.W/2, h.Y+h.H/2)
		grid[y][x] = heartStyle.Render("♥")
	}

	player := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	px, py := toCell(m.player.X, m.player.Y+m.player.H/2)
	for i, r := range []string{"<", "@", ">"} {
		if px+i < Cols {
			grid[py][px+i] = player.Render(r)
		}
	}

	lines := make([]string, Rows)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.Join(lines, "\n"))
}
