package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Mutesi02/product-marketplace/pkg/logger"
)

// RequestLogger registra cada petición: método, ruta, status, latencia y usuario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; así el status registrado es el final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetIdentity(c).ID).
			Msg("request")
		return nil
	}
}
