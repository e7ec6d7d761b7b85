package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: soft pinks and purples with a gold highlight
var (
	Primary   = lipgloss.Color("#EC4899") // Pink
	Secondary = lipgloss.Color("#A855F7") // Purple
	Accent    = lipgloss.Color("#FACC15") // Gold
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#FDF2F8") // Blush white
	TextDim   = lipgloss.Color("#C4B5FD") // Lavender
	BgDark    = lipgloss.Color("#1E1028") // Plum night
	BgCard    = lipgloss.Color("#2E1A3B") // Dark plum
	Border    = lipgloss.Color("#6B4C7A") // Mauve
	Locked    = lipgloss.Color("#6B7280") // Grey

	// Highlight is the selected-button fill on the hub.
	Highlight = Accent
	// Glow marks unlocked presents.
	Glow = lipgloss.Color("#F9A8D4")
)
