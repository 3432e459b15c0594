package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const loggerKey = "logger"

// RequestLogger stores a request-scoped logger in the fiber locals and logs
// one line per request once the handler chain returns.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		log := logger.With(slog.String("request_id", reqID))
		c.Locals(loggerKey, log)

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		log.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
		)
		return err
	}
}

// GetLogger returns the request-scoped logger, or slog.Default() outside a
// RequestLogger chain.
func GetLogger(c *fiber.Ctx) *slog.Logger {
	if logger, ok := c.Locals(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
