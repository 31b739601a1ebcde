package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// LocalRequestID key de Fiber donde queda el X-Request-ID.
const LocalRequestID = "requestid"

// RequestID asigna (o respeta) el header X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  func() string { return uuid.New().String() },
		ContextKey: LocalRequestID,
	})
}

// GetRequestID devuelve una copia del request id asignado por RequestID; si vino en el header,
// el valor original solo es válido durante el handler.
func GetRequestID(c *fiber.Ctx) string {
	return utils.CopyString(localString(c, LocalRequestID))
}

// RequestLogger registra cada petición con zerolog. No incluye headers ni cuerpos.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duracion", time.Since(start)).
			Str("request_id", GetRequestID(c)).
			Str("user_id", GetUserID(c)).
			Err(err).
			Msg("petición HTTP")
		return err
	}
}
