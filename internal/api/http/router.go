package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpcenter-api/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Support *handlers.SupportHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/api/admin")
	admin.Get("/support", cfg.Support.ListTickets)
	admin.Patch("/support", cfg.Support.UpdateTicket)
	admin.Post("/support", cfg.Support.CreateTicket)
}
