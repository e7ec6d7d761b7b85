package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const completionTable = "completion_events"

// completionRepo implements CompletionRepo on the completion_events table.
type completionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

var _ CompletionRepo = (*completionRepo)(nil)

func (r *completionRepo) Append(ctx context.Context, rec *CompletionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	if rec.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		rec.Sequence = seq
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(completionTable).
		Columns("id", "sequence", "game", "score", "saved", "play_through", "created_at").
		Values(rec.ID, rec.Sequence, rec.Game, rec.Score, rec.Saved, rec.PlayThrough, rec.At.UnixNano()).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append completion: %w", err)
	}
	return nil
}

func (r *completionRepo) Recent(ctx context.Context, limit int) ([]CompletionRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "game", "score", "saved", "play_through", "created_at").
		From(entsql.Table(completionTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var out []CompletionRecord
	for rows.Next() {
		var (
			rec CompletionRecord
			at  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Game, &rec.Score, &rec.Saved, &rec.PlayThrough, &at); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		rec.At = time.Unix(0, at).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

func (r *completionRepo) CountByGame(ctx context.Context) (map[string]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("game", entsql.Count("*")).
		From(entsql.Table(completionTable)).
		GroupBy("game").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("count completions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			game string
			n    int
		)
		if err := rows.Scan(&game, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[game] = n
	}
	return counts, rows.Err()
}
