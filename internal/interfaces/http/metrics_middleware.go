package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestRecorder es el contrato mínimo que necesita el middleware para registrar
// peticiones. Lo implementa *metrics.Metrics.
type requestRecorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

// MetricsMiddleware registra método, ruta (patrón, no la URL concreta), status y
// duración de cada petición. Un error devuelto por el handler cuenta con el
// status que le asigna el ErrorHandler de Fiber.
func MetricsMiddleware(rec requestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		rec.RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(started))
		return err
	}
}
