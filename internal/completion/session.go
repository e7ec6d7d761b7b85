// Package completion implements the protocol by which a mini-game reports a
// win: persist the completion exactly once per play-through, record it, then
// tell everyone listening.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/store"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// session's current phase. Screens never trigger it; seeing it means a bug.
var ErrInvalidTransition = errors.New("invalid completion transition")

// Phase is where a play-through stands.
type Phase int

const (
	NotStarted Phase = iota
	Playing
	Completed
	Abandoned
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case Playing:
		return "playing"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Marker persists a completion flag.
type Marker interface {
	MarkCompleted(id progress.GameID) bool
}

// Publisher broadcasts a state-changed event.
type Publisher interface {
	Publish(ev progress.Event)
}

// Outcome is what Complete hands back to the completion screen.
type Outcome struct {
	Game        progress.GameID
	Score       int
	Saved       bool
	PlayThrough int
}

// Session tracks one mini-game screen across its play-throughs.
type Session struct {
	game      progress.GameID
	marker    Marker
	publisher Publisher
	history   store.CompletionRepo
	reporter  *Reporter
	log       *slog.Logger

	phase       Phase
	playThrough int
	outcome     Outcome
	marked      bool
	reason      string
}

// Option configures a Session.
type Option func(*Session)

// WithHistory records every completion in repo.
func WithHistory(repo store.CompletionRepo) Option {
	return func(s *Session) { s.history = repo }
}

// WithReporter posts every completion to a remote endpoint.
func WithReporter(r *Reporter) Option {
	return func(s *Session) { s.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// NewSession creates a session for game. publisher may be nil.
func NewSession(game progress.GameID, marker Marker, publisher Publisher, opts ...Option) *Session {
	s := &Session{
		game:      game,
		marker:    marker,
		publisher: publisher,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Tagged(s.log, "completion").With("game", string(game))
	return s
}

// Game returns the game this session reports for.
func (s *Session) Game() progress.GameID { return s.game }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// PlayThrough returns the number of the current or last play-through,
// starting at 1. It is 0 before the first Start.
func (s *Session) PlayThrough() int { return s.playThrough }

// Outcome returns the result of the last Complete.
func (s *Session) Outcome() Outcome { return s.outcome }

// AbandonReason returns the reason passed to the last Abandon.
func (s *Session) AbandonReason() string { return s.reason }

// Start begins a new play-through. It is allowed from every phase except
// Playing and clears the bookkeeping of the previous play-through.
func (s *Session) Start() error {
	if s.phase == Playing {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.phase)
	}
	s.phase = Playing
	s.playThrough++
	s.outcome = Outcome{}
	s.marked = false
	s.reason = ""
	s.log.Debug("play-through started", "play_through", s.playThrough)
	return nil
}

// Complete records a win. The completion is written at most once per
// play-through; a failed write leaves the session Completed with
// Outcome.Saved false, and RetrySave may be used to try again. The
// state-changed event is published whether or not the write succeeded.
func (s *Session) Complete(score int) (Outcome, error) {
	if s.phase != Playing {
		return Outcome{}, fmt.Errorf("%w: complete while %s", ErrInvalidTransition, s.phase)
	}
	s.phase = Completed
	s.outcome = Outcome{Game: s.game, Score: score, PlayThrough: s.playThrough}

	s.outcome.Saved = s.mark()
	if !s.outcome.Saved {
		s.log.Warn("completion not saved", "play_through", s.playThrough)
	}
	s.record()
	s.publish()
	if s.reporter != nil {
		s.reporter.Report(s.outcome)
	}
	return s.outcome, nil
}

// Abandon ends the play-through without a win. Nothing is persisted.
func (s *Session) Abandon(reason string) error {
	if s.phase != Playing {
		return fmt.Errorf("%w: abandon while %s", ErrInvalidTransition, s.phase)
	}
	s.phase = Abandoned
	s.reason = reason
	s.log.Debug("play-through abandoned", "play_through", s.playThrough, "reason", reason)
	return nil
}

// RetrySave repeats a failed completion write without replaying the game.
// It returns false when the session has nothing to retry or the write fails
// again.
func (s *Session) RetrySave() bool {
	if s.phase != Completed || s.outcome.Saved {
		return false
	}
	s.outcome.Saved = s.mark()
	if s.outcome.Saved {
		s.log.Info("completion saved on retry", "play_through", s.playThrough)
		s.publish()
	}
	return s.outcome.Saved
}

func (s *Session) mark() bool {
	if s.marked {
		return true
	}
	s.marked = s.marker.MarkCompleted(s.game)
	return s.marked
}

func (s *Session) record() {
	if s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rec := &store.CompletionRecord{
		Game:        string(s.game),
		Score:       s.outcome.Score,
		Saved:       s.outcome.Saved,
		PlayThrough: s.outcome.PlayThrough,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		s.log.Warn("record completion", "err", err)
	}
}

func (s *Session) publish() {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(progress.Event{
		Source:    progress.SourceCompletion,
		GameID:    s.game,
		Completed: true,
		Saved:     s.outcome.Saved,
	})
}
