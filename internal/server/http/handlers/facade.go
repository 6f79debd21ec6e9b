package handlers

import (
	"context"
	"encoding/json"

	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/usecase"
)

// WebhookFacade describes webhook processing required by handlers.
type WebhookFacade interface {
	ProcessPayment(ctx context.Context, in usecase.PaymentInput) (*usecase.WebhookResult, error)
	ProcessRefund(ctx context.Context, in usecase.RefundInput) (*usecase.WebhookResult, error)
	ProcessMock(ctx context.Context, in usecase.MockInput) (*usecase.WebhookResult, error)
	RejectWebhook(ctx context.Context, source string, payload json.RawMessage, err error)
	WebhookLogs(ctx context.Context, limit int) ([]model.WebhookLogEntry, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// PaymentsFacade aggregates the full set of operations used across handlers.
type PaymentsFacade interface {
	WebhookFacade
	OrderFacade
	HealthFacade
}
