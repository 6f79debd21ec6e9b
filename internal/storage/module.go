// Package storage selects the repository backend.
package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/domain/repository"
	"github.com/polkiloo/paywebhook/internal/storage/memory"
	"github.com/polkiloo/paywebhook/internal/storage/postgres"
)

// Module wires repository adapters: PostgreSQL when DATABASE_URI is set, memory otherwise.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
		func(f repository.Factory, cfg *config.Config) repository.IdempotencyLedger {
			return f.Ledger(cfg.RedeliveryWindow)
		},
		func(f repository.Factory) repository.WebhookLogRepository { return f.WebhookLogs() },
	),
	fx.Invoke(registerLifecycle),
)

type factoryParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.DatabaseURI == "" {
		p.Logger.Warn("DATABASE_URI is empty, using in-memory storage")
		return memory.New(p.Config.WebhookLogCapacity), nil
	}
	return postgres.New(p.Ctx, p.Config.DatabaseURI, p.Config.WebhookLogCapacity, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, f repository.Factory) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			f.Close()
			return nil
		},
	})
}
