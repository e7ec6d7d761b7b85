// Package hub is the main menu: the three games, their presents and, once
// everything is done, the special reward.
package hub

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pixelgift/internal/config"
	hubsync "github.com/abhisek/pixelgift/internal/hub"
	"github.com/abhisek/pixelgift/internal/notify"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/abhisek/pixelgift/internal/router"
	"github.com/abhisek/pixelgift/internal/screen"
	"github.com/abhisek/pixelgift/internal/ui/components"
	"github.com/abhisek/pixelgift/internal/ui/layout"
)

// Store is the write side of progress the hub needs.
type Store interface {
	Backup() bool
	ResetAll() bool
}

// Options wires the hub to the rest of the program.
type Options struct {
	Sync      *hubsync.Synchronizer
	Store     Store
	Catalogue rewards.Catalogue
	Tagline   string
	// Labels is the menu text; empty fields use config.DefaultLabels.
	Labels config.Labels

	// NewGame builds the screen for a mini-game.
	NewGame func(progress.GameID) screen.Screen
	// NewReward builds the special reward screen.
	NewReward func() screen.Screen
	// NewHistory builds the completion history screen. Optional.
	NewHistory func() screen.Screen
}

type pollMsg struct{ gen uint64 }

type watchMsg struct{ gen uint64 }

type eventMsg struct {
	gen uint64
	ev  progress.Event
}

// HubScreen shows progress and launches games. While it is on top it
// re-reads the store on broadcasts, change-token moves, focus and a poll
// tick; while covered it listens to nothing and re-reads on Resume.
type HubScreen struct {
	opts Options
	sync *hubsync.Synchronizer

	gen          uint64
	sub          *notify.Subscription[progress.Event]
	menu         components.Menu
	confirmReset bool
}

var _ screen.Screen = (*HubScreen)(nil)
var _ screen.KeyHintProvider = (*HubScreen)(nil)
var _ screen.Resumer = (*HubScreen)(nil)
var _ screen.Closer = (*HubScreen)(nil)

// New creates the hub. Nothing is read until Init.
func New(opts Options) *HubScreen {
	opts.Labels = opts.Labels.Or(config.DefaultLabels())
	return &HubScreen{opts: opts, sync: opts.Sync}
}

func (h *HubScreen) Init() tea.Cmd {
	h.sync.Mount()
	h.rebuildMenu()
	return h.listen()
}

func (h *HubScreen) Title() string {
	return "Retro Gaming Hub"
}

func (h *HubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Resume reloads the store when the hub is back on top, consuming the
// backup taken before the game.
func (h *HubScreen) Resume() tea.Cmd {
	h.sync.Reload(hubsync.SignalVisibility)
	h.rebuildMenu()
	return h.listen()
}

// Close drops the subscription and stops the timers.
func (h *HubScreen) Close() {
	h.suspend()
}

// Rewards returns the displayed reward state.
func (h *HubScreen) Rewards() progress.RewardState {
	return h.sync.Rewards()
}

func (h *HubScreen) listen() tea.Cmd {
	h.suspend()
	h.sub = h.sync.Subscribe()
	return tea.Batch(
		pollTick(h.gen, h.sync.PollInterval()),
		watchTick(h.gen, h.sync.TokenWatchInterval()),
		waitEvent(h.gen, h.sub),
	)
}

func (h *HubScreen) suspend() {
	h.gen++
	if h.sub != nil {
		h.sub.Close()
		h.sub = nil
	}
}

func pollTick(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return pollMsg{gen: gen} })
}

func watchTick(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return watchMsg{gen: gen} })
}

func waitEvent(gen uint64, sub *notify.Subscription[progress.Event]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.C()
		if !ok {
			return nil
		}
		return eventMsg{gen: gen, ev: ev}
	}
}

func (h *HubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		if msg.gen != h.gen {
			return h, nil
		}
		h.refresh(hubsync.SignalPoll)
		return h, pollTick(h.gen, h.sync.PollInterval())

	case watchMsg:
		if msg.gen != h.gen {
			return h, nil
		}
		if h.sync.CheckToken() {
			h.rebuildMenu()
		}
		return h, watchTick(h.gen, h.sync.TokenWatchInterval())

	case eventMsg:
		if msg.gen != h.gen || h.sub == nil {
			return h, nil
		}
		h.refresh(hubsync.SignalBroadcast)
		return h, waitEvent(h.gen, h.sub)

	case tea.FocusMsg:
		h.refresh(hubsync.SignalVisibility)
		return h, nil

	case tea.KeyPressMsg:
		prev := h.menu.Selected
		cmd := h.menu.Update(msg)
		if h.menu.Selected != prev && h.confirmReset {
			h.confirmReset = false
			h.rebuildMenu()
		}
		return h, cmd
	}
	return h, nil
}

func (h *HubScreen) refresh(sig hubsync.Signal) {
	if h.sync.Refresh(sig) {
		h.rebuildMenu()
	}
}

func (h *HubScreen) rebuildMenu() {
	r := h.sync.Rewards()
	var items []components.MenuItem
	for _, id := range progress.AllGames {
		item := components.MenuItem{Label: id.DisplayName(), Action: h.playAction(id)}
		if r.Unlocked[id] {
			item.Badge = "✓ Completed"
		} else {
			item.Badge = "Play Now"
		}
		items = append(items, item)
	}
	if h.sync.ShowSpecialReward() && h.opts.NewReward != nil {
		items = append(items, components.MenuItem{Label: h.opts.Labels.SpecialReward, Action: h.rewardAction})
	}
	if h.opts.NewHistory != nil {
		items = append(items, components.MenuItem{Label: h.opts.Labels.History, Action: h.historyAction})
	}
	if r.Completed > 0 && h.opts.Store != nil {
		label := h.opts.Labels.Reset
		if h.confirmReset {
			label = h.opts.Labels.ResetConfirm
		}
		items = append(items, components.MenuItem{Label: label, Action: h.resetAction})
	}
	items = append(items, components.MenuItem{Label: h.opts.Labels.Exit, Action: func() tea.Cmd { return tea.Quit }})
	h.menu.SetItems(items)
}

func (h *HubScreen) playAction(id progress.GameID) func() tea.Cmd {
	return func() tea.Cmd {
		if h.opts.Store != nil {
			h.opts.Store.Backup()
		}
		return h.push(h.opts.NewGame(id))
	}
}

func (h *HubScreen) rewardAction() tea.Cmd {
	// The button only exists when everything is complete, but the store
	// may have been reset since the menu was built.
	h.sync.Refresh(hubsync.SignalVisibility)
	if !h.sync.ShowSpecialReward() {
		h.rebuildMenu()
		return nil
	}
	return h.push(h.opts.NewReward())
}

func (h *HubScreen) historyAction() tea.Cmd {
	return h.push(h.opts.NewHistory())
}

func (h *HubScreen) resetAction() tea.Cmd {
	if !h.confirmReset {
		h.confirmReset = true
		h.rebuildMenu()
		return nil
	}
	h.confirmReset = false
	h.opts.Store.ResetAll()
	h.sync.Refresh(hubsync.SignalBroadcast)
	h.rebuildMenu()
	return nil
}

func (h *HubScreen) push(s screen.Screen) tea.Cmd {
	h.suspend()
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}
