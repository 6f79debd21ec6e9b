package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/usecase"
)

// PaymentsFacadeStub provides controllable behaviour for HTTP endpoints.
type PaymentsFacadeStub struct {
	PaymentFn     func(context.Context, usecase.PaymentInput) (*usecase.WebhookResult, error)
	RefundFn      func(context.Context, usecase.RefundInput) (*usecase.WebhookResult, error)
	MockFn        func(context.Context, usecase.MockInput) (*usecase.WebhookResult, error)
	RejectFn      func(context.Context, string, json.RawMessage, error)
	LogsFn        func(context.Context, int) ([]model.WebhookLogEntry, error)
	CreateOrderFn func(context.Context, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn       func(context.Context, string) (*model.Order, error)
	HealthFn      func(context.Context) error
}

// ProcessPayment delegates to provided function or acknowledges the order.
func (s PaymentsFacadeStub) ProcessPayment(ctx context.Context, in usecase.PaymentInput) (*usecase.WebhookResult, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, in)
	}
	return &usecase.WebhookResult{Success: true, Processed: true, OrderID: in.OrderID, Status: model.OrderStatusProcessing}, nil
}

// ProcessRefund delegates to provided function or acknowledges the refund.
func (s PaymentsFacadeStub) ProcessRefund(ctx context.Context, in usecase.RefundInput) (*usecase.WebhookResult, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, in)
	}
	return &usecase.WebhookResult{Success: true, Processed: true, OrderID: in.OrderID, Status: model.OrderStatusCancelled}, nil
}

// ProcessMock delegates to provided function or acknowledges the mock.
func (s PaymentsFacadeStub) ProcessMock(ctx context.Context, in usecase.MockInput) (*usecase.WebhookResult, error) {
	if s.MockFn != nil {
		return s.MockFn(ctx, in)
	}
	return &usecase.WebhookResult{Success: true, Processed: true, OrderID: in.OrderID, Status: model.OrderStatusProcessing}, nil
}

// RejectWebhook forwards to RejectFn when set.
func (s PaymentsFacadeStub) RejectWebhook(ctx context.Context, source string, payload json.RawMessage, err error) {
	if s.RejectFn != nil {
		s.RejectFn(ctx, source, payload, err)
	}
}

// WebhookLogs returns predefined entries.
func (s PaymentsFacadeStub) WebhookLogs(ctx context.Context, limit int) ([]model.WebhookLogEntry, error) {
	if s.LogsFn != nil {
		return s.LogsFn(ctx, limit)
	}
	return []model.WebhookLogEntry{{ID: "1", Source: "gateway", Event: model.EventPayment, Outcome: model.OutcomeSuccess}}, nil
}

// CreateOrder returns a pending order built from input.
func (s PaymentsFacadeStub) CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, in)
	}
	return &model.Order{ID: "ord_1", OrderNumber: "ORD-1", Status: model.OrderStatusPending, Items: in.Items}, nil
}

// Order returns stored order or a pending default.
func (s PaymentsFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

// HealthCheck reports configured health.
func (s PaymentsFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthFn != nil {
		return s.HealthFn(ctx)
	}
	return nil
}

// NotifyCall stores a single notification request.
type NotifyCall struct {
	Kind   model.NotificationKind
	Order  model.Order
	Reason string
	Amount int64
}

// NotifierStub records notification requests.
type NotifierStub struct {
	mu    sync.Mutex
	calls []NotifyCall
}

func (s *NotifierStub) NotifyOrderConfirmed(order model.Order) {
	s.add(NotifyCall{Kind: model.NotificationOrderConfirmed, Order: order})
}

func (s *NotifierStub) NotifyPaymentFailed(order model.Order, reason string) {
	s.add(NotifyCall{Kind: model.NotificationPaymentFailed, Order: order, Reason: reason})
}

func (s *NotifierStub) NotifyRefundIssued(order model.Order, amount int64) {
	s.add(NotifyCall{Kind: model.NotificationRefundIssued, Order: order, Amount: amount})
}

// Calls returns a copy of recorded requests.
func (s *NotifierStub) Calls() []NotifyCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]NotifyCall(nil), s.calls...)
}

func (s *NotifierStub) add(c NotifyCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

// SinkStub records deliveries and optionally fails them.
type SinkStub struct {
	NameVal   string
	DeliverFn func(context.Context, model.Notification) error

	mu        sync.Mutex
	delivered []model.Notification
}

func (s *SinkStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

func (s *SinkStub) Deliver(ctx context.Context, n model.Notification) error {
	if s.DeliverFn != nil {
		if err := s.DeliverFn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, n)
	return nil
}

// Delivered returns a copy of successful deliveries.
func (s *SinkStub) Delivered() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.delivered...)
}

var _ usecase.Notifier = (*NotifierStub)(nil)
