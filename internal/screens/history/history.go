// Package history lists past completions.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/abhisek/pixelgift/internal/ui/layout"
	"github.com/abhisek/pixelgift/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Records []store.CompletionRecord
	Counts  map[string]int
	Err     error
}

// HistoryScreen displays the most recent completions and wins per game.
type HistoryScreen struct {
	repo    store.CompletionRepo
	records []store.CompletionRecord
	counts  map[string]int
	table   table.Model
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(repo store.CompletionRepo) *HistoryScreen {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 17},
			{Title: "Game", Width: 20},
			{Title: "Score", Width: 6},
			{Title: "Saved", Width: 6},
			{Title: "Play", Width: 5},
		}),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Secondary).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.BgDark).Background(theme.Highlight)
	t.SetStyles(styles)
	return &HistoryScreen{repo: repo, table: t}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		records, err := repo.Recent(ctx, recentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		counts, err := repo.CountByGame(ctx)
		if err != nil {
			return historyLoadedMsg{Records: records, Counts: map[string]int{}}
		}
		return historyLoadedMsg{Records: records, Counts: counts}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.records = msg.Records
		s.counts = msg.Counts
		s.table.SetRows(rows(msg.Records))
		return s, nil

	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd
	}
	return s, nil
}

func rows(records []store.CompletionRecord) []table.Row {
	out := make([]table.Row, 0, len(records))
	for _, r := range records {
		name := r.Game
		if id, err := progress.ParseGameID(r.Game); err == nil {
			name = id.DisplayName()
		}
		saved := "yes"
		if !r.Saved {
			saved = "no"
		}
		out = append(out, table.Row{
			r.At.Local().Format("Jan 02 15:04:05"),
			name,
			fmt.Sprintf("%d", r.Score),
			saved,
			fmt.Sprintf("#%d", r.PlayThrough),
		})
	}
	return out
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games won yet. Go play!")
	}

	var counts []string
	for _, id := range progress.AllGames {
		counts = append(counts, fmt.Sprintf("%s: %d", id.DisplayName(), s.counts[string(id)]))
	}

	tableHeight := height - 6
	if tableHeight < 3 {
		tableHeight = 3
	}
	s.table.SetHeight(tableHeight)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Accent).Bold(true).Render("Wins  " + strings.Join(counts, "   ")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.table.View()))
	return b.String()
}
