package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// Append inserts entry and trims the table to the configured capacity.
func (r *webhookLogRepository) Append(ctx context.Context, entry model.WebhookLogEntry) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var orderID *string
		if entry.OrderID != "" {
			orderID = &entry.OrderID
		}
		var payload []byte
		if len(entry.Payload) > 0 {
			payload = entry.Payload
		}

		const insert = `INSERT INTO webhook_logs (id, source, event, order_id, payload, outcome, message, created_at)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.Exec(ctx, insert, entry.ID, entry.Source, entry.Event, orderID, payload, entry.Outcome, entry.Message, entry.Timestamp); err != nil {
			return err
		}

		const trim = `DELETE FROM webhook_logs WHERE seq <= (SELECT MAX(seq) FROM webhook_logs) - $1`
		_, err := tx.Exec(ctx, trim, r.storage.logCapacity)
		return err
	})
}

func (r *webhookLogRepository) Recent(ctx context.Context, limit int) ([]model.WebhookLogEntry, error) {
	if limit <= 0 || limit > r.storage.logCapacity {
		limit = r.storage.logCapacity
	}
	const query = `SELECT id::text, source, event, order_id, payload, outcome, message, created_at
                   FROM webhook_logs ORDER BY seq DESC LIMIT $1`
	rows, err := r.storage.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.WebhookLogEntry, 0, limit)
	for rows.Next() {
		var (
			e       model.WebhookLogEntry
			orderID *string
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Event, &orderID, &payload, &e.Outcome, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		if orderID != nil {
			e.OrderID = *orderID
		}
		e.Payload = payload
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
