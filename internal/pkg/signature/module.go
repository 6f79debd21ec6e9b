package signature

import (
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
)

// Module provides webhook signature verifier via fx.
var Module = fx.Provide(func(cfg *config.Config) Verifier {
	return NewHMACVerifier(cfg.WebhookSecret)
})
