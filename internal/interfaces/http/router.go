package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-bot/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Bot           EventBatchHandler
	ChannelSecret string
	// RequireSignature rechaza el webhook si no hay secreto configurado (producción).
	RequireSignature bool
	// Gatherer origen de /metrics; nil = sin endpoint de métricas.
	Gatherer     prometheus.Gatherer
	HealthChecks map[string]Pinger
	Log          *logger.Logger
}

// Router registra las rutas del bot.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.HealthChecks)
	app.Get("/health", health.Live)
	app.Get("/healthz", health.Ready)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	webhook := NewWebhookHandler(deps.Bot, deps.Log)
	app.Get("/webhook", webhook.Verify)
	app.Post("/webhook", SignatureMiddleware(deps.ChannelSecret, deps.RequireSignature), webhook.Receive)
}
