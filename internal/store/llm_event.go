package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the llm_request_events table.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var _ EventRepo = (*eventRepo)(nil)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("llm_request_events").
		Columns("sequence", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message", "created_at").
		Values(seq, data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UnixNano()).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsageRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"provider", "model",
			entsql.Count("*"),
			entsql.Sum("(1 - success)"),
			entsql.Sum("input_tokens"),
			entsql.Sum("output_tokens"),
		).
		From(entsql.Table("llm_request_events")).
		GroupBy("provider", "model").
		OrderBy("provider", "model").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageRecord
	for rows.Next() {
		var u LLMUsageRecord
		if err := rows.Scan(&u.Provider, &u.Model, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
