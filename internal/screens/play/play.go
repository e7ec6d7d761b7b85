// Package play is the screen every mini-game runs in. It owns the frame
// loop and the completion session; the game model only steps, takes keys
// and reports won or lost.
package play

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pixelgift/internal/completion"
	"github.com/abhisek/pixelgift/internal/gameloop"
	"github.com/abhisek/pixelgift/internal/games"
	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/abhisek/pixelgift/internal/router"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/layout"
)

// DefaultBackDelay is how long a saved win stays on screen before the hub
// comes back.
const DefaultBackDelay = 3 * time.Second

// Round is a playable mini-game.
type Round struct {
	Game progress.GameID
	Info games.Info
	// New builds a fresh round.
	New func() games.Model
}

// Deps are the services a game screen reports to.
type Deps struct {
	Marker    completion.Marker
	Publisher completion.Publisher
	History   store.CompletionRepo
	Reporter  *completion.Reporter
	Logger    *slog.Logger
	FrameRate int
	// BackDelay overrides DefaultBackDelay; negative disables the
	// automatic return.
	BackDelay time.Duration
}

type phase int

const (
	phaseIntro phase = iota
	phasePlaying
	phaseResult
)

type backToHubMsg struct{}

// GameScreen runs one mini-game across any number of play-throughs.
type GameScreen struct {
	round     Round
	present   rewards.Present
	session   *completion.Session
	loop      *gameloop.Loop
	log       *slog.Logger
	backDelay time.Duration

	phase      phase
	model      games.Model
	status     games.Status
	reason     string
	outcome    completion.Outcome
	autoReturn bool
	actions    components.Menu
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)
var _ screen.Closer = (*GameScreen)(nil)

// New creates the screen for r. present is shown when the round is won.
func New(r Round, present rewards.Present, d Deps) *GameScreen {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	backDelay := d.BackDelay
	if backDelay == 0 {
		backDelay = DefaultBackDelay
	}
	opts := []completion.Option{completion.WithLogger(log)}
	if d.History != nil {
		opts = append(opts, completion.WithHistory(d.History))
	}
	if d.Reporter != nil {
		opts = append(opts, completion.WithReporter(d.Reporter))
	}
	return &GameScreen{
		round:     r,
		present:   present,
		session:   completion.NewSession(r.Game, d.Marker, d.Publisher, opts...),
		loop:      gameloop.New(d.FrameRate),
		log:       logging.Tagged(log, "play").With("game", string(r.Game)),
		backDelay: backDelay,
	}
}

func (s *GameScreen) Init() tea.Cmd {
	return nil
}

func (s *GameScreen) Title() string {
	return s.round.Info.Title
}

// Session exposes the completion session.
func (s *GameScreen) Session() *completion.Session { return s.session }

func (s *GameScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePlaying:
		return []layout.KeyHint{
			{Key: "←→↑↓", Description: "Play"},
			{Key: "Space", Description: "Action"},
			{Key: "Esc", Description: "Leave"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Hub"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Hub"},
	}
}

func (s *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gameloop.FrameMsg:
		if !s.loop.Accept(msg) || s.phase != phasePlaying {
			return s, nil
		}
		s.model.Step(s.loop.Interval())
		if s.model.Status().Over() {
			return s, s.finish()
		}
		return s, s.loop.Next()

	case gameloop.DelayedMsg:
		payload, ok := s.loop.AcceptDelayed(msg)
		if !ok {
			return s, nil
		}
		if _, ok := payload.(backToHubMsg); ok && s.autoReturn {
			return s, s.backToHub()
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *GameScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseIntro:
		switch msg.String() {
		case "enter", "space", " ":
			return s, s.start()
		}
	case phasePlaying:
		s.model.HandleKey(msg.String())
		if s.model.Status().Over() {
			return s, s.finish()
		}
	case phaseResult:
		// Any choice cancels the automatic return.
		prev := s.actions.Selected
		cmd := s.actions.Update(msg)
		if cmd != nil || s.actions.Selected != prev {
			s.autoReturn = false
		}
		return s, cmd
	}
	return s, nil
}

// start begins a new play-through.
func (s *GameScreen) start() tea.Cmd {
	if err := s.session.Start(); err != nil {
		s.log.Error("start play-through", "err", err)
		return nil
	}
	s.model = s.round.New()
	s.phase = phasePlaying
	s.status = games.StatusPlaying
	s.reason = ""
	s.outcome = completion.Outcome{}
	s.autoReturn = false
	return s.loop.Start()
}

// finish stops the loop and reports the round's result.
func (s *GameScreen) finish() tea.Cmd {
	s.loop.Stop()
	s.phase = phaseResult
	s.status = s.model.Status()

	if s.status != games.StatusWon {
		s.reason = s.model.Reason()
		if err := s.session.Abandon(s.reason); err != nil {
			s.log.Error("abandon play-through", "err", err)
		}
		s.actions = components.NewMenu([]components.MenuItem{
			{Label: "Try again", Action: s.start},
			{Label: "Back to hub", Action: s.backToHub},
		})
		return nil
	}

	out, err := s.session.Complete(s.model.Score())
	if err != nil {
		s.log.Error("complete play-through", "err", err)
	}
	s.outcome = out
	s.setWinActions()
	if !out.Saved || s.backDelay < 0 {
		return nil
	}
	s.autoReturn = true
	return s.loop.After(s.backDelay, backToHubMsg{})
}

func (s *GameScreen) setWinActions() {
	var items []components.MenuItem
	if !s.outcome.Saved {
		items = append(items, components.MenuItem{Label: "Retry save", Action: s.retrySave})
	}
	items = append(items,
		components.MenuItem{Label: "Back to hub", Action: s.backToHub},
		components.MenuItem{Label: "Play again", Action: s.start},
	)
	s.actions = components.NewMenu(items)
}

func (s *GameScreen) retrySave() tea.Cmd {
	if s.session.RetrySave() {
		s.outcome = s.session.Outcome()
		s.setWinActions()
	}
	return nil
}

func (s *GameScreen) backToHub() tea.Cmd {
	s.autoReturn = false
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// Close stops the loop. A round still in progress is abandoned.
func (s *GameScreen) Close() {
	s.loop.Stop()
	s.autoReturn = false
	if s.session.Phase() == completion.Playing {
		if err := s.session.Abandon("left the game"); err != nil {
			s.log.Error("abandon on close", "err", err)
		}
	}
}
