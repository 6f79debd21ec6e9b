package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/metrics"
)

// Module provides the notification dispatcher. Sinks are supplied by the application.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Config  *config.Config
	Sinks   []Sink
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

func newDispatcher(p dispatcherParams) *NotificationDispatcher {
	return NewNotificationDispatcher(p.Sinks, p.Config.NotifyQueueSize, p.Config.NotifyWorkers, p.Config.NotifyTimeout, p.Logger, p.Metrics)
}
