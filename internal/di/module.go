package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/adapter/amqp"
	"github.com/polkiloo/paywebhook/internal/adapter/mailer"
	"github.com/polkiloo/paywebhook/internal/adapter/websocket"
	"github.com/polkiloo/paywebhook/internal/app"
	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/logger"
	"github.com/polkiloo/paywebhook/internal/metrics"
	"github.com/polkiloo/paywebhook/internal/pkg/responsecode"
	"github.com/polkiloo/paywebhook/internal/pkg/signature"
	"github.com/polkiloo/paywebhook/internal/server/http/router"
	"github.com/polkiloo/paywebhook/internal/storage"
	"github.com/polkiloo/paywebhook/internal/usecase"
	"github.com/polkiloo/paywebhook/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		signature.Module,
		responsecode.Module,
		storage.Module,
		usecase.Module,
		amqp.Module,
		mailer.Module,
		websocket.Module,
		worker.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
