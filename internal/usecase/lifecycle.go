package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
)

// LifecycleEngine applies status transitions to stored orders.
// It never chooses the target status; callers derive it from the webhook.
type LifecycleEngine struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewLifecycleEngine constructs LifecycleEngine.
func NewLifecycleEngine(orders repository.OrderRepository) *LifecycleEngine {
	return &LifecycleEngine{orders: orders, now: func() time.Time { return time.Now().UTC() }}
}

// Transition moves the order to target. A terminal order, or one whose status is not in from
// when from is given, is returned unchanged with changed=false. The check runs in the store.
// transactionID is stamped on captures (processing, completed); completedAt only on completed.
func (e *LifecycleEngine) Transition(ctx context.Context, orderID string, target model.OrderStatus, transactionID string, from ...model.OrderStatus) (*model.Order, bool, error) {
	if !target.IsPipelineStatus() {
		return nil, false, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, target)
	}

	now := e.now()
	update := model.StatusUpdate{Status: target, UpdatedAt: now, From: from}
	if transactionID != "" && (target == model.OrderStatusProcessing || target == model.OrderStatusCompleted) {
		update.TransactionID = &transactionID
	}
	if target == model.OrderStatusCompleted {
		update.CompletedAt = &now
	}

	order, changed, err := e.orders.UpdateStatus(ctx, orderID, update)
	if err != nil {
		return nil, false, fmt.Errorf("update order status: %w", err)
	}
	return order, changed, nil
}

// Order returns the stored order.
func (e *LifecycleEngine) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return e.orders.Get(ctx, orderID)
}
