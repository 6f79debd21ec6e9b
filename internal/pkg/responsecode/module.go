package responsecode

import (
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/config"
)

// Module provides the response-code translator, loaded once at startup.
var Module = fx.Provide(func(cfg *config.Config) (*Translator, error) {
	if cfg.ResponseCodesFile == "" {
		return Default(), nil
	}
	return LoadFile(cfg.ResponseCodesFile)
})
