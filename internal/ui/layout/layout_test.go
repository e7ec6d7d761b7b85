package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestHeaderCounter(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      string
	}{
		{"hidden", 0, 0, ""},
		{"partial", 1, 3, "1/3 games"},
		{"done", 3, 3, "3/3 games"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RenderHeader("Retro Gaming Hub", tt.completed, tt.total, 100)
			assert.Contains(t, h, "Retro Gaming Hub")
			assert.Equal(t, HeaderHeight, lipgloss.Height(h))
			if tt.want == "" {
				assert.NotContains(t, h, "games")
				return
			}
			assert.Contains(t, h, tt.want)
		})
	}
}

func TestFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Login", 0, 0, 90)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Submit"}}, 90)
	frame := RenderFrame(header, "body", footer, 90, 30)

	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.Contains(t, frame, "Submit")
}

func TestTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
	assert.Contains(t, RenderMinSizeMessage(40, 10), "40 x 10")
}
