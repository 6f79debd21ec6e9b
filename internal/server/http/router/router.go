package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/paywebhook/internal/adapter/websocket"
	"github.com/polkiloo/paywebhook/internal/config"
	"github.com/polkiloo/paywebhook/internal/metrics"
	"github.com/polkiloo/paywebhook/internal/pkg/signature"
	"github.com/polkiloo/paywebhook/internal/server/http/handlers"
	"github.com/polkiloo/paywebhook/internal/server/http/middleware"
)

// Params groups router dependencies.
type Params struct {
	fx.In

	Config    *config.Config
	Facade    handlers.PaymentsFacade
	Websocket *websocket.Handler
	Verifier  signature.Verifier
	Logger    *slog.Logger
	Metrics   *metrics.Metrics `optional:"true"`
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.HTTPMetrics(p.Metrics))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	webhookHandler := handlers.NewWebhookHandler(p.Facade, p.Config.ProcessorName, p.Logger)
	orderHandler := handlers.NewOrderHandler(p.Facade, p.Logger)
	healthHandler := handlers.NewHealthHandler(p.Facade, p.Logger)

	engine.GET("/healthz", healthHandler.Check)
	if p.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	}

	webhooks := engine.Group("/webhooks")
	webhooks.GET("/logs", webhookHandler.Logs)

	signed := webhooks.Group("")
	signed.Use(middleware.VerifySignature(p.Verifier, !p.Config.IsDevelopment()), middleware.DecompressRequest())
	signed.POST("/"+p.Config.ProcessorName, webhookHandler.Payment)
	signed.POST("/refund", webhookHandler.Refund)
	if p.Config.IsDevelopment() {
		signed.POST("/mock", webhookHandler.Mock)
	}

	orders := engine.Group("/orders", middleware.DecompressRequest())
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)
	if p.Websocket != nil {
		orders.GET("/:id/ws", p.Websocket.ServeWS)
	}

	return engine
}
