package app

import (
	"context"
	"encoding/json"

	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
	"github.com/polkiloo/paywebhook/internal/usecase"
)

// PaymentsFacade exposes the webhook pipeline and order operations to transports.
type PaymentsFacade struct {
	webhooks *usecase.WebhookUseCase
	orders   *usecase.OrderUseCase
	logs     *usecase.WebhookLogUseCase
	store    repository.Factory
}

func NewPaymentsFacade(webhooks *usecase.WebhookUseCase, orders *usecase.OrderUseCase, logs *usecase.WebhookLogUseCase, store repository.Factory) *PaymentsFacade {
	return &PaymentsFacade{webhooks: webhooks, orders: orders, logs: logs, store: store}
}

func (f *PaymentsFacade) ProcessPayment(ctx context.Context, in usecase.PaymentInput) (*usecase.WebhookResult, error) {
	return f.webhooks.ProcessPayment(ctx, in)
}

func (f *PaymentsFacade) ProcessRefund(ctx context.Context, in usecase.RefundInput) (*usecase.WebhookResult, error) {
	return f.webhooks.ProcessRefund(ctx, in)
}

func (f *PaymentsFacade) ProcessMock(ctx context.Context, in usecase.MockInput) (*usecase.WebhookResult, error) {
	return f.webhooks.ProcessMock(ctx, in)
}

func (f *PaymentsFacade) RejectWebhook(ctx context.Context, source string, payload json.RawMessage, err error) {
	f.webhooks.Reject(ctx, source, payload, err)
}

func (f *PaymentsFacade) WebhookLogs(ctx context.Context, limit int) ([]model.WebhookLogEntry, error) {
	return f.logs.Recent(ctx, limit)
}

func (f *PaymentsFacade) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *PaymentsFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

// HealthCheck pings the configured store.
func (f *PaymentsFacade) HealthCheck(ctx context.Context) error {
	return f.store.HealthCheck(ctx)
}
