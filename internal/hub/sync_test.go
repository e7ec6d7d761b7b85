package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/notify"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgress(t *testing.T, durable store.KV) *progress.ProgressStore {
	t.Helper()
	ps := progress.New(durable, store.NewMemoryKV(), progress.WithLogger(logging.Discard()))
	t.Cleanup(ps.Close)
	return ps
}

// quietSource never broadcasts and never moves its token, so only polling
// can observe its changes.
type quietSource struct {
	mu    sync.Mutex
	state progress.GameState
	bus   *notify.Bus[progress.Event]
}

func (q *quietSource) Get() progress.GameState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *quietSource) set(s progress.GameState) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = s
}

func (q *quietSource) ChangeToken() int64 { return 0 }

func (q *quietSource) Subscribe() *notify.Subscription[progress.Event] {
	return q.bus.Subscribe(0)
}

func TestMountReadsOnce(t *testing.T) {
	ps := newProgress(t, store.NewMemoryKV())
	require.True(t, ps.MarkCompleted(progress.FlowerMatch))

	s := New(ps, WithLogger(logging.Discard()))
	assert.False(t, s.ShowSpecialReward(), "nothing displayed before mount")

	r := s.Mount()
	assert.Equal(t, 1, r.Completed)
	assert.True(t, r.Unlocked[progress.FlowerMatch])
	assert.Equal(t, 1, s.Reads())
}

func TestRefreshReplacesWholesale(t *testing.T) {
	ps := newProgress(t, store.NewMemoryKV())
	ps.Set(progress.Partial{progress.FlowerMatch: true, progress.HeartJump: true})

	s := New(ps, WithLogger(logging.Discard()))
	s.Mount()

	ps.ResetAll()
	ps.MarkCompleted(progress.CupcakeCatch)

	assert.True(t, s.Refresh(SignalBroadcast))
	assert.Equal(t, progress.GameState{CupcakeCatch: true}, s.State())
	assert.False(t, s.Refresh(SignalPoll), "no change on second read")
}

func TestAllCompletedMatchesStore(t *testing.T) {
	states := []progress.GameState{
		{},
		{FlowerMatch: true},
		{FlowerMatch: true, CupcakeCatch: true},
		{FlowerMatch: true, HeartJump: true},
		{CupcakeCatch: true, HeartJump: true},
		{FlowerMatch: true, CupcakeCatch: true, HeartJump: true},
	}
	for _, st := range states {
		ps := newProgress(t, store.NewMemoryKV())
		ps.Set(progress.Partial{
			progress.FlowerMatch:  st.FlowerMatch,
			progress.CupcakeCatch: st.CupcakeCatch,
			progress.HeartJump:    st.HeartJump,
		})
		s := New(ps, WithLogger(logging.Discard()))
		s.Mount()

		want := st.FlowerMatch && st.CupcakeCatch && st.HeartJump
		assert.Equal(t, want, s.Rewards().AllCompleted, "state %+v", st)
		assert.Equal(t, want, s.ShowSpecialReward(), "state %+v", st)
	}
}

func TestSpecialRewardFollowsReset(t *testing.T) {
	ps := newProgress(t, store.NewMemoryKV())
	for _, id := range progress.AllGames {
		ps.MarkCompleted(id)
	}
	s := New(ps, WithLogger(logging.Discard()))
	s.Mount()
	require.True(t, s.ShowSpecialReward())

	ps.Reset(progress.HeartJump)
	s.Refresh(SignalVisibility)
	assert.False(t, s.ShowSpecialReward())
}

func TestTokenMovesOnForeignWrite(t *testing.T) {
	durable := store.NewMemoryKV()
	mine := newProgress(t, durable)
	theirs := newProgress(t, durable)

	s := New(mine, WithLogger(logging.Discard()))
	s.Mount()
	assert.False(t, s.TokenMoved())
	assert.False(t, s.CheckToken())

	theirs.MarkCompleted(progress.HeartJump)

	assert.True(t, s.TokenMoved())
	assert.True(t, s.CheckToken())
	assert.True(t, s.State().HeartJump)
	assert.False(t, s.TokenMoved())
}

func TestMountRestoresMirror(t *testing.T) {
	durable := store.NewMemoryKV()
	session := store.NewMemoryKV()
	ps := progress.New(durable, session, progress.WithLogger(logging.Discard()))
	defer ps.Close()
	ps.Initialize()

	// Simulate a completion that reached the mirror but not the durable key.
	ctx := context.Background()
	require.NoError(t, session.Set(ctx, progress.KeyMirror, `{"flowerMatch":false,"cupcakeCatch":true,"heartJump":false}`))
	require.NoError(t, session.Set(ctx, progress.KeyMirrorToken, "9223372036854775807"))

	s := New(ps, WithLogger(logging.Discard()))
	r := s.Mount()
	assert.True(t, r.Unlocked[progress.CupcakeCatch])
}

func TestReloadRestoresBackupAfterGame(t *testing.T) {
	durable := store.NewMemoryKV()
	session := store.NewMemoryKV()
	ps := progress.New(durable, session, progress.WithLogger(logging.Discard()))
	defer ps.Close()

	s := New(ps, WithLogger(logging.Discard()))
	s.Mount()
	require.True(t, ps.Backup())

	// The game's win reached the mirror only.
	ctx := context.Background()
	require.NoError(t, session.Set(ctx, progress.KeyMirror, `{"flowerMatch":false,"cupcakeCatch":false,"heartJump":true}`))
	require.NoError(t, session.Set(ctx, progress.KeyMirrorToken, "9223372036854775807"))

	assert.True(t, s.Reload(SignalVisibility))
	assert.True(t, s.Rewards().Unlocked[progress.HeartJump])
	_, err := session.Get(ctx, progress.KeyMirror)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.False(t, s.Reload(SignalVisibility), "nothing left to restore or change")
}

func runSync(t *testing.T, s *Synchronizer) (<-chan Signal, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan Signal, 16)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(_ progress.RewardState, sig Signal) {
			signals <- sig
		})
	}()
	t.Cleanup(cancel)
	return signals, cancel, done
}

func waitSignal(t *testing.T, signals <-chan Signal) Signal {
	t.Helper()
	select {
	case sig := <-signals:
		return sig
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh observed")
		return ""
	}
}

func TestRunRefreshesOnBroadcast(t *testing.T) {
	ps := newProgress(t, store.NewMemoryKV())
	s := New(ps, WithLogger(logging.Discard()),
		WithPollInterval(time.Hour), WithTokenWatchInterval(time.Hour))

	signals, cancel, done := runSync(t, s)
	assert.Equal(t, SignalMount, waitSignal(t, signals))

	ps.MarkCompleted(progress.FlowerMatch)
	assert.Equal(t, SignalBroadcast, waitSignal(t, signals))
	assert.True(t, s.State().FlowerMatch)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}

func TestRunSeesForeignWriteThroughToken(t *testing.T) {
	durable := store.NewMemoryKV()
	mine := newProgress(t, durable)
	theirs := newProgress(t, durable)
	s := New(mine, WithLogger(logging.Discard()),
		WithPollInterval(time.Hour), WithTokenWatchInterval(10*time.Millisecond))

	signals, _, _ := runSync(t, s)
	waitSignal(t, signals)

	theirs.MarkCompleted(progress.CupcakeCatch)
	assert.Equal(t, SignalStorage, waitSignal(t, signals))
	assert.True(t, s.State().CupcakeCatch)
}

func TestRunPollingBackstop(t *testing.T) {
	src := &quietSource{bus: notify.NewBus[progress.Event]()}
	s := New(src, WithLogger(logging.Discard()),
		WithPollInterval(10*time.Millisecond), WithTokenWatchInterval(time.Hour))

	signals, _, _ := runSync(t, s)
	waitSignal(t, signals)

	src.set(progress.GameState{HeartJump: true})
	assert.Equal(t, SignalPoll, waitSignal(t, signals))
	assert.True(t, s.State().HeartJump)
}
