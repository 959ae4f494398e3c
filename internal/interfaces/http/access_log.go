package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// requestObserver lo implementa infrastructure/metrics.Metrics.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// AccessLog emite un evento por request con status, latencia y request id.
// Debe registrarse después de requestid para tener el id.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler todavía no escribió la respuesta
			_ = c.App().Config().ErrorHandler(c, err)
			err = nil
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("organization_id", GetOrganizationID(c)).
			Msg("request")
		return err
	}
}

// RequestMetrics cuenta requests y latencia por ruta (patrón, no path real).
func RequestMetrics(m requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			_ = c.App().Config().ErrorHandler(c, err)
			err = nil
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.ObserveRequest(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
