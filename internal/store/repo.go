package store

import (
	"context"
	"time"
)

// CompletionRecord is one row of the completion history: a mini-game was
// won and the progress write was attempted.
type CompletionRecord struct {
	ID          string
	Sequence    int64
	Game        string
	Score       int
	Saved       bool
	PlayThrough int
	At          time.Time
}

// CompletionRepo provides append and query access to the completion history.
type CompletionRepo interface {
	// Append records a completion. ID, Sequence and At are filled in when zero.
	Append(ctx context.Context, rec *CompletionRecord) error

	// Recent returns up to limit records, newest first (0 = unlimited).
	Recent(ctx context.Context, limit int) ([]CompletionRecord, error)

	// CountByGame returns the number of recorded wins per game.
	CountByGame(ctx context.Context) (map[string]int, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsageRecord totals the request log for one provider and model.
type LLMUsageRecord struct {
	Provider     string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage totals the log per provider and model.
	LLMUsage(ctx context.Context) ([]LLMUsageRecord, error)
}
