package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "gameState"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing key: err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "gameState", `{"flowerMatch":true}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := kv.Get(ctx, "gameState")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `{"flowerMatch":true}` {
		t.Errorf("value = %q", got)
	}

	// Overwrite goes through the upsert path.
	if err := kv.Set(ctx, "gameState", `{}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, "gameState")
	if got != `{}` {
		t.Errorf("value after overwrite = %q, want {}", got)
	}

	if err := kv.Delete(ctx, "gameState"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, "gameState"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
	if err := kv.Delete(ctx, "gameState"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}

func TestKVClosedStoreFails(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	s.Close()

	if err := kv.Set(context.Background(), "k", "v"); err == nil {
		t.Error("expected error writing to a closed store")
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	kv.Set(ctx, "a", "1")
	if v, _ := kv.Get(ctx, "a"); v != "1" {
		t.Errorf("a = %q, want 1", v)
	}
	kv.Delete(ctx, "a")
	if _, err := kv.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestCompletionAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.CompletionRepo()
	ctx := context.Background()

	games := []string{"flowerMatch", "heartJump", "flowerMatch"}
	for i, g := range games {
		rec := &CompletionRecord{Game: g, Score: 10 + i, Saved: i != 1, PlayThrough: 1}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if rec.ID == "" || rec.Sequence == 0 || rec.At.IsZero() {
			t.Errorf("append %d did not fill id/sequence/time: %+v", i, rec)
		}
	}

	recs, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Score != 12 || recs[1].Score != 11 {
		t.Errorf("order = %d,%d, want 12,11", recs[0].Score, recs[1].Score)
	}
	if recs[1].Saved {
		t.Error("second newest record should be unsaved")
	}

	all, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	counts, err := repo.CountByGame(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["flowerMatch"] != 2 || counts["heartJump"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &CompletionRecord{Game: "cupcakeCatch"}
	if err := s.CompletionRepo().Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "letter", Success: true,
	}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	var llmSeq int64
	if err := s.DB().QueryRow("SELECT sequence FROM llm_request_events").Scan(&llmSeq); err != nil {
		t.Fatalf("select: %v", err)
	}
	if llmSeq <= rec.Sequence {
		t.Errorf("llm sequence %d should follow completion sequence %d", llmSeq, rec.Sequence)
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 40, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", InputTokens: 10, Success: false, ErrorMessage: "429"},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", InputTokens: 5, OutputTokens: 5, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len = %d, want 2", len(usage))
	}
	got := usage[1]
	want := LLMUsageRecord{Provider: "openai", Model: "gpt-4o-mini", Calls: 2, Failures: 1, InputTokens: 110, OutputTokens: 40}
	if got != want {
		t.Errorf("openai usage = %+v, want %+v", got, want)
	}
	if usage[0].Provider != "anthropic" || usage[0].Failures != 0 {
		t.Errorf("anthropic usage = %+v", usage[0])
	}
}
