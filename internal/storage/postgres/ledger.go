package postgres

import (
	"context"
	"log/slog"
	"time"
)

func (r *ledgerRepository) Seen(ctx context.Context, key string) (bool, error) {
	var seen bool
	if r.window <= 0 {
		const query = `SELECT EXISTS(SELECT 1 FROM idempotency_keys WHERE key=$1)`
		err := r.storage.pool.QueryRow(ctx, query, key).Scan(&seen)
		return seen, err
	}
	const query = `SELECT EXISTS(SELECT 1 FROM idempotency_keys WHERE key=$1 AND recorded_at > $2)`
	err := r.storage.pool.QueryRow(ctx, query, key, time.Now().Add(-r.window)).Scan(&seen)
	return seen, err
}

func (r *ledgerRepository) Record(ctx context.Context, key string) error {
	if r.window > 0 {
		const purge = `DELETE FROM idempotency_keys WHERE recorded_at <= $1`
		if _, err := r.storage.pool.Exec(ctx, purge, time.Now().Add(-r.window)); err != nil {
			return err
		}
	}

	const insert = `INSERT INTO idempotency_keys (key) VALUES ($1) ON CONFLICT (key) DO NOTHING`
	tag, err := r.storage.pool.Exec(ctx, insert, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		r.storage.logger.Debug("idempotency key already recorded", slog.String("key", key))
	}
	return nil
}
