// Package app assembles the screens into the Bubble Tea program.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pixelgift/internal/auth"
	"github.com/abhisek/pixelgift/internal/completion"
	"github.com/abhisek/pixelgift/internal/config"
	hubsync "github.com/abhisek/pixelgift/internal/hub"
	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/abhisek/pixelgift/internal/router"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/screens/history"
	hubscreen "github.com/abhisek/pixelgift/internal/screens/hub"
	"github.com/abhisek/pixelgift/internal/screens/login"
	"github.com/abhisek/pixelgift/internal/screens/play"
	"github.com/abhisek/pixelgift/internal/screens/reward"
	"github.com/abhisek/pixelgift/internal/screens/welcome"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/abhisek/pixelgift/internal/ui/layout"
)

// Options holds the services the TUI runs on.
type Options struct {
	Config   *config.Config
	Progress *progress.ProgressStore
	Gate     *auth.Gate
	History  store.CompletionRepo
	Reporter *completion.Reporter
	Letters  *rewards.LetterWriter
	Logger   *slog.Logger
	// Seed fixes the game boards; 0 deals randomly.
	Seed uint64
	// SkipIntro skips the animated intro.
	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sync   *hubsync.Synchronizer
	width  int
	height int
}

type builder struct {
	opts      Options
	log       *slog.Logger
	sync      *hubsync.Synchronizer
	catalogue rewards.Catalogue
	rounds    map[progress.GameID]play.Round
}

// newAppModel creates the root model, starting at the intro.
func newAppModel(opts Options) AppModel {
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config
	b := &builder{
		opts: opts,
		log:  log,
		sync: hubsync.New(opts.Progress,
			hubsync.WithLogger(log),
			hubsync.WithPollInterval(cfg.PollInterval),
			hubsync.WithTokenWatchInterval(cfg.TokenWatchInterval),
		),
		catalogue: rewards.NewCatalogue(cfg.Presents),
		rounds:    rounds(cfg, opts.Seed),
	}

	var initial screen.Screen
	if opts.SkipIntro {
		initial = b.entry()
	} else {
		initial = welcome.New(cfg.Headline, cfg.Tagline, b.entry)
	}
	return AppModel{router: router.New(initial), sync: b.sync}
}

// entry is the hub for a signed-in player and the login screen otherwise.
func (b *builder) entry() screen.Screen {
	if b.opts.Gate == nil || b.opts.Gate.IsAuthenticated() {
		return b.hub()
	}
	return login.New(b.opts.Gate, b.labels().Greeting+" "+b.opts.Config.Recipient, b.hub)
}

func (b *builder) hub() screen.Screen {
	o := hubscreen.Options{
		Sync:      b.sync,
		Store:     b.opts.Progress,
		Catalogue: b.catalogue,
		Tagline:   b.labels().HubTagline,
		Labels:    b.labels(),
		NewGame:   b.game,
		NewReward: b.reward,
	}
	if b.opts.History != nil {
		o.NewHistory = func() screen.Screen { return history.New(b.opts.History) }
	}
	return hubscreen.New(o)
}

func (b *builder) labels() config.Labels {
	return b.opts.Config.Labels.Or(config.DefaultLabels())
}

func (b *builder) game(id progress.GameID) screen.Screen {
	return play.New(b.rounds[id], b.catalogue.For(id), play.Deps{
		Marker:    b.opts.Progress,
		Publisher: b.opts.Progress,
		History:   b.opts.History,
		Reporter:  b.opts.Reporter,
		Logger:    b.log,
		FrameRate: b.opts.Config.FrameRate,
	})
}

func (b *builder) reward() screen.Screen {
	w := b.opts.Letters
	if w == nil {
		w = rewards.NewLetterWriter(nil, b.opts.Config.Letter, b.log)
	}
	return reward.New(w, rewards.LetterInput{
		Recipient: b.opts.Config.Recipient,
		Presents:  b.catalogue.Presents(),
	})
}

func (m AppModel) Init() tea.Cmd {
	if a := m.router.Active(); a != nil {
		return a.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The counter appears once the hub has read the store.
	completed, total := 0, 0
	if m.sync.Reads() > 0 {
		r := m.sync.Rewards()
		completed, total = r.Completed, r.Total
	}
	header := layout.RenderHeader(title, completed, total, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	log := logging.Tagged(opts.Logger, "app")
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		log.Error("program exited", "err", err)
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
