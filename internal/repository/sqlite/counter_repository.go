package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/repository"
)

type counterStore struct {
	db *sql.DB
}

// NewCounterStore creates a CounterStore backed by the daily_counters table.
func NewCounterStore(db *sql.DB) repository.CounterStore {
	return &counterStore{db: db}
}

func (r *counterStore) Get(ctx context.Context, key string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("counter_store")

	var value int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM daily_counters WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		log.Error("failed to get counter %s: %v", key, err)
		return 0, err
	}
	return value, nil
}

func (r *counterStore) Set(ctx context.Context, key string, value int) error {
	log := logger.FromContext(ctx).WithPrefix("counter_store")
	log.Debug("setting counter %s=%d", key, value)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_counters (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		log.Error("failed to set counter %s: %v", key, err)
	}
	return err
}

// Increment is a single upsert, so concurrent sessions bumping the same key
// cannot lose updates.
func (r *counterStore) Increment(ctx context.Context, key string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("counter_store")

	var value int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO daily_counters (key, value, updated_at) VALUES (?, 1, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = value + 1, updated_at = CURRENT_TIMESTAMP
RETURNING value
`, key).Scan(&value)
	if err != nil {
		log.Error("failed to increment counter %s: %v", key, err)
		return 0, err
	}
	log.Debug("counter incremented: %s=%d", key, value)
	return value, nil
}

func (r *counterStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("counter_store")

	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_counters WHERE updated_at < ?`, cutoff)
	if err != nil {
		log.Error("failed to prune counters: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("pruned %d stale counters", n)
	return n, nil
}
