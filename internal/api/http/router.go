package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/print-expert/repair-service/internal/api/http/handlers"
	"github.com/print-expert/repair-service/internal/auth"
	"github.com/print-expert/repair-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Repairs        *handlers.RepairsHandler
	Transfer       *handlers.TransferHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	repairs := app.Group("/repairs", cfg.AuthMiddleware.Handle)

	// Client surface.
	repairs.Post("/", cfg.Repairs.Create)
	repairs.Post("/analyze", cfg.Repairs.Analyze)
	repairs.Get("/mine", cfg.Repairs.Mine)

	// Admin surface.
	adminOnly := auth.RequireRole(domain.RoleAdmin)
	repairs.Get("/", adminOnly, cfg.Repairs.List)
	repairs.Get("/stats", adminOnly, cfg.Repairs.Stats)
	repairs.Get("/export/json", adminOnly, cfg.Transfer.ExportJSON)
	repairs.Get("/export/csv", adminOnly, cfg.Transfer.ExportCSV)
	repairs.Post("/import", adminOnly, cfg.Transfer.Import)
	repairs.Patch("/:id/status", adminOnly, cfg.Repairs.UpdateStatus)
	repairs.Post("/:id/comments", adminOnly, cfg.Repairs.AddComment)
	repairs.Patch("/:id/cost", adminOnly, cfg.Repairs.UpdateCost)

	// Shared: ownership enforced in the handler.
	repairs.Get("/:id", cfg.Repairs.Get)
}
