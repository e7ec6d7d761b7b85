package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/notify"
	"github.com/abhisek/pixelgift/internal/store"
)

// Storage keys. The durable store holds the first two; the session mirror
// holds the last two.
const (
	KeyGameState   = "gameState"
	KeyChangeToken = "forceRefresh"
	KeyMirror      = "updatedGameState"
	KeyMirrorToken = "updatedGameStateToken"
)

// opTimeout bounds a single storage call so a locked database cannot hang
// the UI thread.
const opTimeout = 2 * time.Second

// Store is the injectable view of persisted progress used by screens and
// services. Get and Set never fail loudly: Get falls back to defaults and
// Set reports failure as false.
type Store interface {
	Get() GameState
	Set(p Partial) bool
	Subscribe() *notify.Subscription[Event]
}

// ProgressStore implements Store on a durable KV plus a session mirror.
type ProgressStore struct {
	durable store.KV
	session store.KV
	bus     *notify.Bus[Event]
	log     *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	lastToken int64
}

var _ Store = (*ProgressStore)(nil)

// Option configures a ProgressStore.
type Option func(*ProgressStore)

// WithLogger sets the logger. Records are tagged "progress".
func WithLogger(l *slog.Logger) Option {
	return func(s *ProgressStore) { s.log = l }
}

// WithClock replaces time.Now for change tokens.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressStore) { s.now = now }
}

// WithBus shares an existing bus instead of creating one.
func WithBus(b *notify.Bus[Event]) Option {
	return func(s *ProgressStore) { s.bus = b }
}

// New creates a ProgressStore. session may be nil, in which case the mirror
// is kept in memory.
func New(durable, session store.KV, opts ...Option) *ProgressStore {
	s := &ProgressStore{
		durable: durable,
		session: session,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.session == nil {
		s.session = store.NewMemoryKV()
	}
	if s.bus == nil {
		s.bus = notify.NewBus[Event]()
	}
	s.log = logging.Tagged(s.log, "progress")
	return s
}

// Get reads the durable state. A missing key, unreadable storage or a
// payload that fails validation all yield the all-false default.
func (s *ProgressStore) Get() GameState {
	state, err := s.load()
	if err != nil {
		s.log.Warn("read game state", "err", err)
		return GameState{}
	}
	return state
}

// load reads the durable state. A missing key or an invalid payload is the
// default state; only a failed read is an error.
func (s *ProgressStore) load() (GameState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.durable.Get(ctx, KeyGameState)
	if errors.Is(err, store.ErrNotFound) {
		return GameState{}, nil
	}
	if err != nil {
		return GameState{}, err
	}
	state, err := Parse(raw)
	if err != nil {
		s.log.Warn("discarding stored game state", "err", err)
		return GameState{}, nil
	}
	return state, nil
}

// Set merges p over the current state and writes the result. The session
// mirror is written first so a failed durable write can be recovered by
// Restore. Set returns false, leaving durable storage untouched, when the
// durable read or write fails or p names an unknown game. A change-token
// failure is logged only: the progress itself is saved by then.
func (s *ProgressStore) Set(p Partial) bool {
	for id := range p {
		if !id.Valid() {
			s.log.Error("rejecting update", "err", fmt.Errorf("%w: %q", ErrUnknownGame, id))
			return false
		}
	}

	current, readErr := s.load()
	payload := Encode(current.Merge(p))

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	token := s.nextToken(ctx)
	s.writeMirror(ctx, payload, token)

	// Writing over an unread state would drop the completions it holds.
	// The mirror keeps p for Restore.
	if readErr != nil {
		s.log.Error("read game state before save", "err", readErr)
		return false
	}

	if err := s.durable.Set(ctx, KeyGameState, payload); err != nil {
		s.log.Error("save game state", "err", err)
		return false
	}
	if err := s.durable.Set(ctx, KeyChangeToken, strconv.FormatInt(token, 10)); err != nil {
		s.log.Warn("write change token", "err", err)
	}

	s.log.Debug("game state saved", "state", payload, "token", token)
	s.bus.Publish(Event{Source: SourceStore, Token: token})
	return true
}

// MarkCompleted sets the flag for id. Calling it again is harmless.
func (s *ProgressStore) MarkCompleted(id GameID) bool {
	return s.Set(Partial{id: true})
}

// Reset clears the flag for id.
func (s *ProgressStore) Reset(id GameID) bool {
	return s.Set(Partial{id: false})
}

// ResetAll clears every flag.
func (s *ProgressStore) ResetAll() bool {
	p := make(Partial, len(AllGames))
	for _, id := range AllGames {
		p[id] = false
	}
	return s.Set(p)
}

// Subscribe registers an observer of store and completion events.
func (s *ProgressStore) Subscribe() *notify.Subscription[Event] {
	return s.bus.Subscribe(0)
}

// Publish forwards ev to subscribers.
func (s *ProgressStore) Publish(ev Event) {
	s.bus.Publish(ev)
}

// Close releases every subscription.
func (s *ProgressStore) Close() {
	s.bus.Close()
}

// ChangeToken returns the last token written by any process, or 0.
func (s *ProgressStore) ChangeToken() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.readToken(ctx)
}

func (s *ProgressStore) readToken(ctx context.Context) int64 {
	raw, err := s.durable.Get(ctx, KeyChangeToken)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// nextToken returns a token greater than any seen so far, normally the
// current time in nanoseconds.
func (s *ProgressStore) nextToken(ctx context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.lastToken
	if stored := s.readToken(ctx); stored > last {
		last = stored
	}
	token := s.now().UnixNano()
	if token <= last {
		token = last + 1
	}
	s.lastToken = token
	return token
}

// Initialize prepares storage on program start: it restores from the
// session mirror and writes the defaults if no durable state exists.
func (s *ProgressStore) Initialize() GameState {
	s.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := s.durable.Get(ctx, KeyGameState); errors.Is(err, store.ErrNotFound) {
		s.log.Info("initializing game state")
		s.Set(nil)
	}
	return s.Get()
}

// Restore consumes the session mirror once it is applied. Completions it holds
// that the durable copy lacks were lost to a write racing navigation and
// are written back. A mirror older than the durable change token is
// discarded, so a reset made by another process is not undone. It reports
// whether anything was restored.
func (s *ProgressStore) Restore() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.session.Get(ctx, KeyMirror)
	if err != nil {
		return false
	}
	current, err := s.load()
	if err != nil {
		s.log.Warn("restore deferred", "err", err)
		return false
	}
	var mirrorToken int64
	if t, err := s.session.Get(ctx, KeyMirrorToken); err == nil {
		mirrorToken, _ = strconv.ParseInt(t, 10, 64)
	}
	if mirrorToken < s.readToken(ctx) {
		s.log.Debug("discarding stale session mirror", "token", mirrorToken)
		s.dropMirror(ctx)
		return false
	}

	backup := Decode(raw)
	restore := Partial{}
	for _, id := range AllGames {
		if backup.Completed(id) && !current.Completed(id) {
			restore[id] = true
		}
	}
	if len(restore) == 0 {
		s.dropMirror(ctx)
		return false
	}
	s.log.Info("restoring completions from session mirror", "games", len(restore))
	// A failed write leaves the mirror Set rewrote for the next attempt.
	if !s.Set(restore) {
		return false
	}
	s.dropMirror(ctx)
	return true
}

func (s *ProgressStore) dropMirror(ctx context.Context) {
	if err := s.session.Delete(ctx, KeyMirror); err != nil {
		s.log.Warn("consume session mirror", "err", err)
	}
	s.session.Delete(ctx, KeyMirrorToken)
}

// Backup copies the current state into the session mirror. Called before
// handing control to a mini-game.
func (s *ProgressStore) Backup() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.writeMirror(ctx, Encode(s.Get()), s.readToken(ctx))
}

func (s *ProgressStore) writeMirror(ctx context.Context, payload string, token int64) bool {
	if err := s.session.Set(ctx, KeyMirror, payload); err != nil {
		s.log.Warn("write session mirror", "err", err)
		return false
	}
	if err := s.session.Set(ctx, KeyMirrorToken, strconv.FormatInt(token, 10)); err != nil {
		s.log.Warn("write session mirror token", "err", err)
		return false
	}
	return true
}
