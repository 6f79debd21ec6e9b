package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
)

const orderColumns = `id, order_number, status, items, subtotal, tax, total, payment_method, payment_session_id,
    transaction_id, customer_name, customer_email, created_at, updated_at, completed_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	const query = `INSERT INTO orders (` + orderColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.storage.pool.Exec(ctx, query,
		order.ID, order.OrderNumber, order.Status, items, order.Subtotal, order.Tax, order.Total,
		order.PaymentMethod, order.PaymentSessionID, order.TransactionID, order.CustomerName,
		order.CustomerEmail, order.CreatedAt, order.UpdatedAt, order.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Order, bool, error) {
	var (
		result  *model.Order
		changed bool
	)
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		order, err := scanOrder(tx.QueryRow(ctx, selectQuery, id))
		if err != nil {
			return err
		}
		if !update.Allows(order.Status) {
			result = order
			return nil
		}

		order.Apply(update)
		const updateQuery = `UPDATE orders SET status=$1, transaction_id=$2, updated_at=$3, completed_at=$4 WHERE id=$5`
		if _, err := tx.Exec(ctx, updateQuery, order.Status, order.TransactionID, order.UpdatedAt, order.CompletedAt, id); err != nil {
			return err
		}
		result = order
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &items, &o.Subtotal, &o.Tax, &o.Total,
		&o.PaymentMethod, &o.PaymentSessionID, &o.TransactionID, &o.CustomerName, &o.CustomerEmail,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return &o, nil
}
