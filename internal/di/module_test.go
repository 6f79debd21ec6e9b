package di

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/paywebhook/internal/adapter/amqp"
	"github.com/polkiloo/paywebhook/internal/adapter/mailer"
	"github.com/polkiloo/paywebhook/internal/app"
	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/usecase"
	"github.com/polkiloo/paywebhook/internal/worker"
)

func testConfig() *config.Config {
	return &config.Config{
		RunAddress:         "127.0.0.1:0",
		Environment:        config.EnvDevelopment,
		ProcessorName:      "gateway",
		SuccessStatus:      "processing",
		NotifyWorkers:      1,
		NotifyQueueSize:    8,
		NotifyTimeout:      time.Second,
		StoreTimeout:       time.Second,
		ShutdownTimeout:    time.Second,
		WebhookLogCapacity: 10,
		WebhookLogMaxLimit: 10,
		RedeliveryWindow:   time.Hour,
	}
}

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade     *app.PaymentsFacade
		dispatcher *worker.NotificationDispatcher
		sinks      []worker.Sink
		publisher  *amqp.Publisher
		client     *mailer.HTTPClient
	)
	fxApp := fxtest.New(t,
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(testConfig()),
			fx.Replace(logger),
		),
		fx.Populate(&facade, &dispatcher, &sinks, &publisher, &client),
	)
	fxApp.RequireStart()
	defer fxApp.RequireStop()

	if facade == nil || dispatcher == nil {
		t.Fatal("expected facade and dispatcher instances")
	}
	if publisher != nil || client != nil {
		t.Fatal("expected optional sinks to be disabled without configuration")
	}
	if len(sinks) != 2 {
		t.Fatalf("expected log and websocket sinks, got %d", len(sinks))
	}

	ctx := context.Background()
	order, err := facade.CreateOrder(ctx, usecase.CreateOrderInput{
		Items:         []model.OrderItem{{ProductID: "p1", UnitPrice: 500, Quantity: 1}},
		CustomerName:  "Alex",
		CustomerEmail: "alex@example.com",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	res, err := facade.ProcessPayment(ctx, usecase.PaymentInput{OrderID: order.ID, ResultCode: "000", Payload: json.RawMessage(`{}`)})
	if err != nil || !res.Processed {
		t.Fatalf("unexpected payment result %+v, %v", res, err)
	}
}
