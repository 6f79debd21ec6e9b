package amqp

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
)

// Module provides the publisher. It is nil when AMQP_URL is not configured.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newPublisher(p publisherParams) (*Publisher, error) {
	if p.Config.AMQPURL == "" {
		return nil, nil
	}
	pub, err := NewPublisher(p.Config.AMQPURL, p.Config.AMQPExchange)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("amqp notifications enabled", slog.String("exchange", p.Config.AMQPExchange))
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
