package repository

import (
	"context"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	// UpdateStatus applies update atomically when update.Allows the stored status.
	// It returns the resulting order and whether it changed.
	UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Order, bool, error)
}
