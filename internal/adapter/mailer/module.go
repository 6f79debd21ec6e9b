package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
)

// Module exposes mailer client to fx graph. The client is nil when no endpoint is configured.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*HTTPClient, error) {
	if p.Config.NotifyEndpoint == "" {
		return nil, nil
	}
	return NewHTTPClient(p.Config.NotifyEndpoint, p.Logger)
}
