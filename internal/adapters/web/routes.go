package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp creates the Fiber app with the middleware chain and routes.
func NewApp(handlers *Handlers, rateLimiter *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "verifybot",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())
	app.Use(RequestLoggerMiddleware())

	SetupRoutes(app, handlers, rateLimiter)
	return app
}

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter) {
	app.Get("/healthz", handlers.Health)

	// Leaderboards read from Redis, so they are rate limited per IP.
	app.Get("/api/guilds/:guildID/leaderboard", rateLimiter.Middleware(), handlers.APILeaderboard)
	app.Get("/guilds/:guildID/leaderboard", rateLimiter.Middleware(), handlers.LeaderboardPage)
}
