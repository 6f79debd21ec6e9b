package websocket

import "go.uber.org/fx"

// Module provides the order status hub and its HTTP handler.
var Module = fx.Provide(NewHub, NewHandler)
