package router

import "go.uber.org/fx"

// Module provides the gin engine serving webhooks, orders and operational endpoints.
var Module = fx.Provide(Setup)
