package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/adapter/amqp"
	"github.com/polkiloo/paywebhook/internal/adapter/mailer"
	"github.com/polkiloo/paywebhook/internal/adapter/websocket"
	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/server/http/handlers"
	"github.com/polkiloo/paywebhook/internal/usecase"
	"github.com/polkiloo/paywebhook/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewPaymentsFacade,
		func(f *PaymentsFacade) handlers.PaymentsFacade { return f },
		func(f *PaymentsFacade) websocket.OrderReader { return f },
		func(d *worker.NotificationDispatcher) usecase.Notifier { return d },
		newSinks,
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type sinkParams struct {
	fx.In

	Logger    *slog.Logger
	Hub       *websocket.Hub
	Publisher *amqp.Publisher    `optional:"true"`
	Mailer    *mailer.HTTPClient `optional:"true"`
}

// newSinks lists notification sinks. Disabled adapters are provided as nil and skipped.
func newSinks(p sinkParams) []worker.Sink {
	sinks := []worker.Sink{worker.NewLogSink(p.Logger), p.Hub}
	if p.Publisher != nil {
		sinks = append(sinks, p.Publisher)
	}
	if p.Mailer != nil {
		sinks = append(sinks, p.Mailer)
	}
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	p.Logger.Info("notification sinks configured", slog.Any("sinks", names))
	return sinks
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.NotificationDispatcher
	Hub        *websocket.Hub
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting paywebhook",
				slog.String("addr", p.Server.Addr),
				slog.String("environment", p.Config.Environment),
				slog.String("processor", p.Config.ProcessorName))
			runCtx := context.WithoutCancel(ctx)
			p.Hub.Start(runCtx)
			p.Dispatcher.Start(runCtx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Dispatcher.Stop()
			p.Hub.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("paywebhook stopped")
			return nil
		},
	})
}
