package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/pejotu/archicad-georef/internal/pkg/metrics"
)

// SetupRoutes registers all routes and middleware.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP. The bridge fronts a
	// single ArchiCAD instance; one greedy client can starve everyone.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1. Addon commands can take a while when ArchiCAD is busy
	// regenerating the model, so the per-request timeout is generous.
	v1 := app.Group("/v1")
	v1.Get("/geolocation", timeout.NewWithContext(GetGeolocationHandler(deps), 45*time.Second))
	v1.Put("/geolocation", timeout.NewWithContext(PutGeolocationHandler(deps), 45*time.Second))
	v1.Post("/geolocation/crs", timeout.NewWithContext(ApplyCRSHandler(deps), 45*time.Second))
	v1.Get("/crs/:code", timeout.NewWithContext(GetCRSHandler(deps), 15*time.Second))
	v1.Delete("/crs/:code", timeout.NewWithContext(InvalidateCRSHandler(deps), 15*time.Second))
	v1.Get("/transform", timeout.NewWithContext(TransformHandler(deps), 15*time.Second))
}
