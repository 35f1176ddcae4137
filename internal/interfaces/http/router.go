package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tu-usuario/vsdc-relay/internal/application/relay"
	"github.com/tu-usuario/vsdc-relay/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator *relay.WebhookOrchestrator
	Activities   repository.WebhookActivityRepository
	Registry     *prometheus.Registry // nil desactiva /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		))
	}

	api := app.Group("/api/v1")

	// Webhooks de la plataforma de facturación
	webhooks := api.Group("/webhooks")
	webhookHandler := NewWebhookHandler(deps.Orchestrator)
	webhooks.Post("/zoho/invoice", webhookHandler.HandleInvoice)
	webhooks.Post("/zoho/credit-note", webhookHandler.HandleCreditNote)

	// Historial de actividades
	activityHandler := NewActivityHandler(deps.Activities)
	webhooks.Get("/activities", activityHandler.List)
	webhooks.Get("/activities/:id", activityHandler.GetByID)
}
