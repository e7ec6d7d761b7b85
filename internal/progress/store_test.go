package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/pixelgift/internal/store"
)

// flakyKV wraps a MemoryKV and fails writes while failWrites is set and
// game state reads while failReads is set.
type flakyKV struct {
	*store.MemoryKV
	failWrites bool
	failReads  bool
	writes     int
}

var (
	errQuota  = errors.New("quota exceeded")
	errLocked = errors.New("database is locked")
)

func (f *flakyKV) Get(ctx context.Context, key string) (string, error) {
	if f.failReads && key == KeyGameState {
		return "", errLocked
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	f.writes++
	if f.failWrites {
		return errQuota
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func newTestStore(t *testing.T) (*ProgressStore, *flakyKV) {
	t.Helper()
	durable := &flakyKV{MemoryKV: store.NewMemoryKV()}
	s := New(durable, store.NewMemoryKV(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(s.Close)
	return s, durable
}

func TestGetDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
		want   GameState
	}{
		{"absent key", "", false, GameState{}},
		{"not JSON", "flowerMatch=true", true, GameState{}},
		{"JSON array", `[true, true, true]`, true, GameState{}},
		{"JSON null", `null`, true, GameState{}},
		{"JSON string", `"yes"`, true, GameState{}},
		{"non-boolean field", `{"flowerMatch":"true"}`, true, GameState{}},
		{"partial object", `{"flowerMatch":true}`, true, GameState{FlowerMatch: true}},
		{"unknown keys ignored", `{"heartJump":true,"extra":42}`, true, GameState{HeartJump: true}},
		{"full object", `{"flowerMatch":true,"cupcakeCatch":true,"heartJump":false}`, true,
			GameState{FlowerMatch: true, CupcakeCatch: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, durable := newTestStore(t)
			if tt.set {
				durable.MemoryKV.Set(context.Background(), KeyGameState, tt.stored)
			}
			if got := s.Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSetMergesOverCurrentState(t *testing.T) {
	s, _ := newTestStore(t)

	updates := []Partial{
		{FlowerMatch: true},
		{HeartJump: true},
		{FlowerMatch: false, CupcakeCatch: true},
	}
	want := GameState{}
	for i, p := range updates {
		if !s.Set(p) {
			t.Fatalf("set %d returned false", i)
		}
		want = want.Merge(p)
		if got := s.Get(); got != want {
			t.Errorf("after set %d: Get() = %+v, want %+v", i, got, want)
		}
	}
}

func TestSetMergesOverDecodedNotRaw(t *testing.T) {
	s, durable := newTestStore(t)
	durable.MemoryKV.Set(context.Background(), KeyGameState, `{"flowerMatch":true,"junk":[1,2]}`)

	s.Set(Partial{HeartJump: true})

	raw, _ := durable.MemoryKV.Get(context.Background(), KeyGameState)
	if strings.Contains(raw, "junk") {
		t.Errorf("unknown keys should be dropped on write, got %s", raw)
	}
	want := GameState{FlowerMatch: true, HeartJump: true}
	if got := s.Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestMarkCompletedIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.MarkCompleted(HeartJump) {
		t.Fatal("first mark failed")
	}
	once := s.Get()
	if !s.MarkCompleted(HeartJump) {
		t.Fatal("second mark failed")
	}
	twice := s.Get()

	if once != twice {
		t.Errorf("state after two marks %+v differs from one mark %+v", twice, once)
	}
	want := GameState{HeartJump: true}
	if twice != want {
		t.Errorf("Get() = %+v, want %+v", twice, want)
	}
}

func TestResetSingleGame(t *testing.T) {
	s, _ := newTestStore(t)
	s.Set(Partial{FlowerMatch: true, CupcakeCatch: true})

	if !s.Reset(FlowerMatch) {
		t.Fatal("reset failed")
	}
	want := GameState{CupcakeCatch: true}
	if got := s.Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestResetAll(t *testing.T) {
	priors := []GameState{
		{},
		{FlowerMatch: true},
		{FlowerMatch: true, CupcakeCatch: true, HeartJump: true},
	}
	for i, prior := range priors {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			s, durable := newTestStore(t)
			durable.MemoryKV.Set(context.Background(), KeyGameState, Encode(prior))

			if !s.ResetAll() {
				t.Fatal("ResetAll returned false")
			}
			if got := s.Get(); got != (GameState{}) {
				t.Errorf("Get() = %+v, want all false", got)
			}
		})
	}
}

func TestSetFailureLeavesStateIntact(t *testing.T) {
	s, durable := newTestStore(t)
	s.MarkCompleted(FlowerMatch)
	before := s.Get()

	durable.failWrites = true
	if s.MarkCompleted(CupcakeCatch) {
		t.Fatal("Set should return false when the durable write fails")
	}
	if got := s.Get(); got != before {
		t.Errorf("Get() after failed write = %+v, want %+v", got, before)
	}
}

func TestSetRefusesWhenReadFails(t *testing.T) {
	s, durable := newTestStore(t)
	s.MarkCompleted(FlowerMatch)
	s.MarkCompleted(CupcakeCatch)

	durable.failReads = true
	writes := durable.writes
	if s.MarkCompleted(HeartJump) {
		t.Fatal("MarkCompleted should fail while the current state is unreadable")
	}
	if durable.writes != writes {
		t.Errorf("durable writes = %d, want none while reads fail", durable.writes-writes)
	}

	durable.failReads = false
	want := GameState{FlowerMatch: true, CupcakeCatch: true}
	if got := s.Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if !s.Restore() {
		t.Fatal("the attempted completion should still be in the session mirror")
	}
	want.HeartJump = true
	if got := s.Get(); got != want {
		t.Errorf("after Restore Get() = %+v, want %+v", got, want)
	}
}

func TestSetRejectsUnknownGame(t *testing.T) {
	s, durable := newTestStore(t)
	writes := durable.writes

	if s.Set(Partial{GameID("tetris"): true}) {
		t.Error("unknown game should be rejected")
	}
	if durable.writes != writes {
		t.Error("rejected update must not touch storage")
	}
}

func TestSetPublishesEvent(t *testing.T) {
	s, _ := newTestStore(t)
	sub := s.Subscribe()
	defer sub.Close()

	s.MarkCompleted(CupcakeCatch)

	select {
	case ev := <-sub.C():
		if ev.Source != SourceStore {
			t.Errorf("source = %q, want store", ev.Source)
		}
		if ev.Token == 0 || ev.Token != s.ChangeToken() {
			t.Errorf("event token %d, stored token %d", ev.Token, s.ChangeToken())
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestChangeTokenMonotonic(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	durable := &flakyKV{MemoryKV: store.NewMemoryKV()}
	s := New(durable, nil, WithClock(func() time.Time { return fixed }))

	var last int64
	for i := 0; i < 3; i++ {
		s.MarkCompleted(FlowerMatch)
		tok := s.ChangeToken()
		if tok <= last {
			t.Fatalf("token %d not greater than %d", tok, last)
		}
		last = tok
	}
}

func TestInitializeWritesDefaults(t *testing.T) {
	s, durable := newTestStore(t)

	got := s.Initialize()
	if got != (GameState{}) {
		t.Errorf("Initialize() = %+v, want defaults", got)
	}
	raw, err := durable.MemoryKV.Get(context.Background(), KeyGameState)
	if err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
	if raw != `{"flowerMatch":false,"cupcakeCatch":false,"heartJump":false}` {
		t.Errorf("stored = %s", raw)
	}
}

func TestRestoreRecoversFailedWrite(t *testing.T) {
	s, durable := newTestStore(t)
	s.Initialize()

	durable.failWrites = true
	if s.MarkCompleted(HeartJump) {
		t.Fatal("expected failed write")
	}
	durable.failWrites = false

	if !s.Restore() {
		t.Fatal("Restore should write back the completion held by the mirror")
	}
	if !s.Get().HeartJump {
		t.Error("heartJump should be restored")
	}
	if _, err := s.session.Get(context.Background(), KeyMirror); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("mirror should be consumed, got err=%v", err)
	}
	if s.Restore() {
		t.Error("mirror must be consumed once")
	}
}

func TestRestoreKeepsMirrorWhileWritesFail(t *testing.T) {
	s, durable := newTestStore(t)
	s.Initialize()

	durable.failWrites = true
	s.MarkCompleted(CupcakeCatch)
	if s.Restore() {
		t.Fatal("restore cannot succeed while writes fail")
	}
	durable.failWrites = false

	if !s.Restore() {
		t.Fatal("second restore should write back the completion")
	}
	if !s.Get().CupcakeCatch {
		t.Error("cupcakeCatch should be restored")
	}
}

func TestRestoreDiscardsStaleMirror(t *testing.T) {
	s, durable := newTestStore(t)
	s.MarkCompleted(FlowerMatch) // mirror now holds flowerMatch=true

	// Another process resets everything after the mirror was written.
	other := New(durable, store.NewMemoryKV())
	other.ResetAll()

	if s.Restore() {
		t.Error("stale mirror must not undo a newer reset")
	}
	if s.Get().FlowerMatch {
		t.Error("flowerMatch should stay reset")
	}
}

func TestBackupWritesMirror(t *testing.T) {
	session := store.NewMemoryKV()
	durable := store.NewMemoryKV()
	s := New(durable, session)
	s.MarkCompleted(CupcakeCatch)
	session.Delete(context.Background(), KeyMirror)

	if !s.Backup() {
		t.Fatal("backup failed")
	}
	raw, err := session.Get(context.Background(), KeyMirror)
	if err != nil {
		t.Fatalf("mirror missing: %v", err)
	}
	if got := Decode(raw); got != (GameState{CupcakeCatch: true}) {
		t.Errorf("mirror = %+v", got)
	}
}

func TestSQLiteBackedStore(t *testing.T) {
	st, err := store.Open("file:progress_sqlite?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	s := New(st.KV(), nil)
	s.Initialize()
	s.MarkCompleted(FlowerMatch)
	s.MarkCompleted(HeartJump)

	// A second store over the same database sees the same state.
	other := New(st.KV(), nil)
	want := GameState{FlowerMatch: true, HeartJump: true}
	if got := other.Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if other.ChangeToken() != s.ChangeToken() || s.ChangeToken() == 0 {
		t.Errorf("tokens differ: %d vs %d", other.ChangeToken(), s.ChangeToken())
	}
}
