package common

import (
	"errors"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponseText writes a plain-text error body with the given status.
func ErrorResponseText(c *fiber.Ctx, status int, message string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(message)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInternal), errors.Is(err, domain.ErrCache):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
