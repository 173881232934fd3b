package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devspeak/devspeak-api/internal/config"
	"github.com/devspeak/devspeak-api/internal/handler"
	"github.com/devspeak/devspeak-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	SessionHandler    *handler.SessionHandler
	ProgressHandler   *handler.ProgressHandler
	JWTMiddleware     fiber.Handler
	RateLimiter       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Evaluation endpoints sit behind the rate limiter: each call is a
	// metered upstream model request.
	if deps.EvaluationHandler != nil {
		evaluation := api.Group("", jwtMiddleware)
		if deps.RateLimiter != nil {
			evaluation = evaluation.Group("", deps.RateLimiter)
		}
		deps.EvaluationHandler.Register(evaluation)
	}

	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(api.Group("", jwtMiddleware))
	}

	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(api.Group("", jwtMiddleware))
	}
}
