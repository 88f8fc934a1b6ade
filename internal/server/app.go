package server

import (
	"quiz-gen/internal/config"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Quiz    *handler.QuizHandler
	Health  *handler.HealthHandler
	Metrics prometheus.Gatherer
	// Swagger enables /swagger/*; the docs package must be linked in by the binary.
	Swagger bool
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp(cfg config.ServerConfig, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: middleware.RequestIDHeader,
		MaxAge:        300,
	}))

	if h.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}
	if h.Health != nil {
		app.Get("/health", h.Health.Health)
	}
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{})))
	}

	app.Post("/generate", h.Quiz.GenerateQuiz)

	return app
}
