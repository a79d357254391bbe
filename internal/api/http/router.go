package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credential-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	LoginPath string
	Health    *handlers.HealthHandler
	Login     *handlers.LoginHandler
	Metrics   fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	app.Post(loginPath, cfg.Login.Login)
}
