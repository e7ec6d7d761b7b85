// Package layout draws the frame around every screen: a header bar with the
// game counter, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Rows taken by the header and footer bars.
	HeaderHeight = 3
	FooterHeight = 3

	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight reports whether the hub should switch to its list layout.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a bigger terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("♥ This gift needs more room ♥\n\nResize to at least %d x %d\n(now %d x %d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the brand, the screen title centred and, when total is
// positive, the completed-games counter on the right.
func RenderHeader(title string, completed, total int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ♥ PixelGift")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	counter := ""
	if total > 0 {
		c := theme.Accent
		if completed >= total {
			c = theme.Success
		}
		counter = lipgloss.NewStyle().Foreground(c).Render(fmt.Sprintf("✿ %d/%d games  ", completed, total))
	}

	inner := max(width-4, 0)
	bw, cw, rw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(counter)
	before := max((inner-cw)/2-bw, 1)
	after := max(inner-bw-before-cw-rw, 1)

	return bar(width).Render(brand + strings.Repeat(" ", before) + center + strings.Repeat(" ", after) + counter)
}

// RenderFooter draws the key hints separated by small hearts.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	sep := lipgloss.NewStyle().Foreground(theme.Border).Render("  ·  ")

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width).Render("  " + strings.Join(parts, sep))
}

// RenderFrame stacks header, content and footer, giving the content every
// row the bars leave free.
func RenderFrame(header, content, footer string, width, height int) string {
	free := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(free).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
