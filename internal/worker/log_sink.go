package worker

import (
	"context"
	"log/slog"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

// LogSink writes notifications to the structured log. It stands in for email delivery
// when no endpoint is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, n model.Notification) error {
	s.logger.InfoContext(ctx, "notification",
		slog.String("id", n.ID),
		slog.String("kind", string(n.Kind)),
		slog.String("order_id", n.OrderID),
		slog.String("order_number", n.OrderNumber),
		slog.String("status", string(n.Status)),
		slog.String("customer_email", n.CustomerEmail),
		slog.Int64("total", n.Total),
		slog.Int64("amount", n.Amount),
		slog.String("reason", n.Reason))
	return nil
}
