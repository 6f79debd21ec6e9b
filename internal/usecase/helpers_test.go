package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
	"github.com/polkiloo/paywebhook/internal/pkg/responsecode"
	"github.com/polkiloo/paywebhook/internal/storage/memory"
)

type notifyCall struct {
	kind   model.NotificationKind
	order  model.Order
	reason string
	amount int64
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) NotifyOrderConfirmed(order model.Order) {
	n.add(notifyCall{kind: model.NotificationOrderConfirmed, order: order})
}

func (n *recordingNotifier) NotifyPaymentFailed(order model.Order, reason string) {
	n.add(notifyCall{kind: model.NotificationPaymentFailed, order: order, reason: reason})
}

func (n *recordingNotifier) NotifyRefundIssued(order model.Order, amount int64) {
	n.add(notifyCall{kind: model.NotificationRefundIssued, order: order, amount: amount})
}

func (n *recordingNotifier) add(c notifyCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, c)
}

func (n *recordingNotifier) snapshot() []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifyCall(nil), n.calls...)
}

type fixture struct {
	uc       *WebhookUseCase
	orders   *memory.OrderStore
	ledger   *memory.Ledger
	logs     *memory.WebhookLog
	notifier *recordingNotifier
}

type fixtureOption func(*config.Config, *WebhookParams)

func withSuccessStatus(status string) fixtureOption {
	return func(cfg *config.Config, _ *WebhookParams) { cfg.SuccessStatus = status }
}

func withOrders(wrap func(repository.OrderRepository) repository.OrderRepository) fixtureOption {
	return func(_ *config.Config, p *WebhookParams) {
		p.Engine = NewLifecycleEngine(wrap(p.Engine.orders))
	}
}

func withLedger(wrap func(repository.IdempotencyLedger) repository.IdempotencyLedger) fixtureOption {
	return func(_ *config.Config, p *WebhookParams) { p.Ledger = wrap(p.Ledger) }
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := &config.Config{
		ProcessorName: "gateway",
		SuccessStatus: "processing",
		StoreTimeout:  time.Second,
		MockMaxDelay:  20 * time.Millisecond,
	}
	f := &fixture{
		orders:   memory.NewOrderStore(),
		ledger:   memory.NewLedger(time.Hour, nil),
		logs:     memory.NewWebhookLog(100),
		notifier: &recordingNotifier{},
	}
	p := WebhookParams{
		Config:     cfg,
		Translator: responsecode.Default(),
		Ledger:     f.ledger,
		Logs:       f.logs,
		Engine:     NewLifecycleEngine(f.orders),
		Notifier:   f.notifier,
		Logger:     testLogger(),
	}
	for _, opt := range opts {
		opt(cfg, &p)
	}
	f.uc = NewWebhookUseCase(p)
	return f
}

func (f *fixture) seed(t *testing.T, id string, status model.OrderStatus) {
	t.Helper()
	order := &model.Order{
		ID:            id,
		OrderNumber:   "ORD-" + id,
		Status:        status,
		Items:         []model.OrderItem{{ProductID: "p1", ProductName: "Mug", UnitPrice: 1250, Quantity: 2}},
		Subtotal:      2500,
		Tax:           200,
		Total:         2700,
		PaymentMethod: "card",
		CustomerName:  "Alex",
		CustomerEmail: "alex@example.com",
		CreatedAt:     time.Unix(0, 0).UTC(),
		UpdatedAt:     time.Unix(0, 0).UTC(),
	}
	if err := f.orders.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func (f *fixture) order(t *testing.T, id string) *model.Order {
	t.Helper()
	order, err := f.orders.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	return order
}

func (f *fixture) entries(t *testing.T) []model.WebhookLogEntry {
	t.Helper()
	entries, err := f.logs.Recent(context.Background(), 100)
	if err != nil {
		t.Fatalf("recent logs: %v", err)
	}
	return entries
}
