package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██╗██╗  ██╗███████╗██╗          ██████╗ ██╗███████╗████████╗
 ██╔══██╗██║╚██╗██╔╝██╔════╝██║         ██╔════╝ ██║██╔════╝╚══██╔══╝
 ██████╔╝██║ ╚███╔╝ █████╗  ██║         ██║  ███╗██║█████╗     ██║
 ██╔═══╝ ██║ ██╔██╗ ██╔══╝  ██║         ██║   ██║██║██╔══╝     ██║
 ██║     ██║██╔╝ ██╗███████╗███████╗    ╚██████╔╝██║██║        ██║
 ╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝     ╚═════╝ ╚═╝╚═╝        ╚═╝`

const bannerCompact = "P I X E L  G I F T"

// RenderBanner returns the banner in the primary color, or the compact
// line on terminals narrower than 72 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
