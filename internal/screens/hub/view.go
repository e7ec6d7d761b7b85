package hub

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/layout"
	"github.com/abhisek/pixelgift/internal/ui/theme"
)

func (h *HubScreen) View(width, height int) string {
	r := h.sync.Rewards()
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Retro Gaming Hub")
	if h.opts.Tagline != "" {
		title += "\n" + lipgloss.NewStyle().Foreground(theme.Primary).Render(h.opts.Tagline)
	}
	sections = append(sections, title)

	sections = append(sections, components.NewProgressBar("Progress", r.Completed, r.Total, cw).View())

	menu := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("♥ Choose a Game") +
		"\n\n" + h.menu.View()
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Padding(0, 1).
		Render(strings.TrimRight(menu, "\n")))

	sections = append(sections, renderPresents(h.opts.Catalogue.Entries(r), cw, compact))

	if r.AllCompleted {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render("✨ "+h.opts.Labels.AllComplete+" ✨"))
	}

	content := strings.Join(sections, "\n\n")
	if compact {
		content = strings.Join(sections, "\n")
	}
	return components.GiftFrame(content, width, height)
}

func renderPresents(entries []rewards.Entry, cw int, compact bool) string {
	heading := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("🎁 Your Presents")
	if compact {
		lines := []string{heading}
		for _, e := range entries {
			if e.Unlocked {
				lines = append(lines, lipgloss.NewStyle().Foreground(theme.Glow).Render("♥ "+e.Title+": "+e.Content))
			} else {
				lines = append(lines, lipgloss.NewStyle().Foreground(theme.Locked).Render("▪ Locked Present"))
			}
		}
		return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
	}

	panels := []string{heading}
	for _, e := range entries {
		var body string
		if e.Unlocked {
			body = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(e.Title) +
				"\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(e.Content)
		} else {
			body = lipgloss.NewStyle().Foreground(theme.Locked).Bold(true).Render("Locked Present") +
				"\n" + lipgloss.NewStyle().Foreground(theme.Locked).Italic(true).Render(e.LockedHint())
		}
		panels = append(panels, components.Panel(body, cw, e.Unlocked))
	}
	return lipgloss.JoinVertical(lipgloss.Center, panels...)
}
