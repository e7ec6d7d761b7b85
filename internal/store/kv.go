package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned by KV.Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// KV is a string key-value store. The durable implementation is backed by
// the kv table; MemoryKV lives only as long as the process.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

const kvTable = "kv"

// sqliteKV implements KV on the kv table.
type sqliteKV struct {
	drv *entsql.Driver
}

var _ KV = (*sqliteKV)(nil)

func (k *sqliteKV) Get(ctx context.Context, key string) (string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("name", key)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := k.drv.Query(ctx, query, args, rows); err != nil {
		return "", fmt.Errorf("query %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("query %q: %w", key, err)
		}
		return "", ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", fmt.Errorf("scan %q: %w", key, err)
	}
	return value, nil
}

func (k *sqliteKV) Set(ctx context.Context, key, value string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("name", "value", "updated_at").
		Values(key, value, time.Now().UnixNano()).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (k *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ("name", key)).
		Query()

	if err := k.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// MemoryKV is a process-scoped KV. It backs the session mirror, which must
// not outlive the running program.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
