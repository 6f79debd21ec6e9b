package config

import "go.uber.org/fx"

// Module loads configuration from the environment and process flags.
var Module = fx.Provide(Load)
