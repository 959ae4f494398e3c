package http

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// SwaggerFile ruta del documento generado por swag init.
const SwaggerFile = "./docs/swagger.json"

// ServerOptions configuración del servidor HTTP.
type ServerOptions struct {
	AppName   string
	BodyLimit int
	Log       *logger.Logger
	Metrics   *metrics.Metrics // nil = sin /metrics ni métricas por request
	HealthDB  func(ctx context.Context) error
}

// NewServer crea la app Fiber con el stack de middlewares común y las rutas de la API.
func NewServer(opts ServerOptions, deps RouterDeps) *fiber.App {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: ErrorHandler,
		BodyLimit:    opts.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(AccessLog(opts.Log.Named("http")))
	if opts.Metrics != nil {
		app.Use(RequestMetrics(opts.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: SwaggerFile,
			Path:     "docs",
			Title:    "POS Backoffice API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if opts.HealthDB != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := opts.HealthDB(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": opts.AppName})
	})

	Router(app, deps)
	return app
}
