// Package hub keeps the hub's displayed progress in step with the store.
//
// The store can change behind the hub's back: a mini-game writes while the
// hub is off screen, or another process runs "pixelgift reset". The
// Synchronizer therefore re-reads on several independent signals and always
// replaces what it shows wholesale.
package hub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/notify"
	"github.com/abhisek/pixelgift/internal/progress"
)

// Signal names what triggered a re-read.
type Signal string

const (
	SignalMount      Signal = "mount"
	SignalBroadcast  Signal = "broadcast"
	SignalStorage    Signal = "storage"
	SignalVisibility Signal = "visibility"
	SignalPoll       Signal = "poll"
)

// Default intervals.
const (
	DefaultPollInterval       = time.Second
	DefaultTokenWatchInterval = 250 * time.Millisecond
)

// Source is the part of the progress store the hub reads.
type Source interface {
	Get() progress.GameState
	ChangeToken() int64
	Subscribe() *notify.Subscription[progress.Event]
}

// Restorer is implemented by stores that keep a session mirror.
type Restorer interface {
	Restore() bool
}

// Synchronizer holds the displayed state.
type Synchronizer struct {
	src   Source
	log   *slog.Logger
	poll  time.Duration
	watch time.Duration

	mu      sync.Mutex
	mounted bool
	state   progress.GameState
	rewards progress.RewardState
	token   int64
	reads   int
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// WithPollInterval sets the polling backstop interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.poll = d
		}
	}
}

// WithTokenWatchInterval sets how often Run checks the change token.
func WithTokenWatchInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.watch = d
		}
	}
}

// New creates a Synchronizer over src. Nothing is read until Mount.
func New(src Source, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		src:   src,
		log:   slog.Default(),
		poll:  DefaultPollInterval,
		watch: DefaultTokenWatchInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Tagged(s.log, "hub")
	s.rewards = progress.Rewards(progress.GameState{})
	return s
}

// PollInterval returns the polling backstop interval.
func (s *Synchronizer) PollInterval() time.Duration { return s.poll }

// TokenWatchInterval returns the change-token check interval.
func (s *Synchronizer) TokenWatchInterval() time.Duration { return s.watch }

// Subscribe opens a subscription to the source's change notifications.
func (s *Synchronizer) Subscribe() *notify.Subscription[progress.Event] {
	return s.src.Subscribe()
}

// Mount initializes displayed state.
func (s *Synchronizer) Mount() progress.RewardState {
	s.Reload(SignalMount)
	return s.Rewards()
}

// Reload is a Refresh that first consumes the session mirror, when the
// source keeps one, so a completion whose durable write failed is written
// back before it is read.
func (s *Synchronizer) Reload(sig Signal) bool {
	if r, ok := s.src.(Restorer); ok && r.Restore() {
		s.log.Info("restored progress from session mirror", "signal", string(sig))
	}
	return s.Refresh(sig)
}

// Refresh re-reads the store and replaces the displayed state. It reports
// whether the displayed state changed.
func (s *Synchronizer) Refresh(sig Signal) bool {
	state := s.src.Get()
	token := s.src.ChangeToken()

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := !s.mounted || state != s.state
	s.mounted = true
	s.state = state
	s.rewards = progress.Rewards(state)
	s.token = token
	s.reads++

	if changed {
		s.log.Debug("state replaced", "signal", string(sig),
			"completed", s.rewards.Completed, "token", token)
	}
	return changed
}

// TokenMoved reports whether another writer changed the store since the
// last read.
func (s *Synchronizer) TokenMoved() bool {
	token := s.src.ChangeToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != s.token
}

// CheckToken refreshes with SignalStorage when the change token moved.
func (s *Synchronizer) CheckToken() bool {
	if !s.TokenMoved() {
		return false
	}
	return s.Refresh(SignalStorage)
}

// State returns the displayed completion flags.
func (s *Synchronizer) State() progress.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rewards returns the reward state derived from the last read.
func (s *Synchronizer) Rewards() progress.RewardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewards
}

// Reads returns how many times the store has been read.
func (s *Synchronizer) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// ShowSpecialReward reports whether the special reward may be shown. It is
// a no-op returning false until every game is completed.
func (s *Synchronizer) ShowSpecialReward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted && s.rewards.AllCompleted
}

// Run drives the synchronizer outside the TUI. It mounts, then re-reads on
// every broadcast, change-token move and poll tick until ctx is done.
// onChange is called after each refresh that changed the displayed state,
// including the mount.
func (s *Synchronizer) Run(ctx context.Context, onChange func(progress.RewardState, Signal)) error {
	sub := s.src.Subscribe()
	defer sub.Close()

	s.Mount()
	if onChange != nil {
		onChange(s.Rewards(), SignalMount)
	}

	pollTicker := time.NewTicker(s.poll)
	defer pollTicker.Stop()
	watchTicker := time.NewTicker(s.watch)
	defer watchTicker.Stop()

	events := sub.C()
	for {
		var (
			sig     Signal
			changed bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				// Bus closed; keep going on the timers alone.
				events = nil
				continue
			}
			sig, changed = SignalBroadcast, s.Refresh(SignalBroadcast)
		case <-watchTicker.C:
			sig, changed = SignalStorage, s.CheckToken()
		case <-pollTicker.C:
			sig, changed = SignalPoll, s.Refresh(SignalPoll)
		}
		if changed && onChange != nil {
			onChange(s.Rewards(), sig)
		}
	}
}
