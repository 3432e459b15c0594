package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: func() string { return "req-1" }}))
	app.Use(RequestLogger(logger))
	app.Get("/ping", func(c *fiber.Ctx) error {
		GetLogger(c).Info("inside handler")
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := buf.String()
	assert.Contains(t, out, "inside handler")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "path=/ping")
	assert.Contains(t, out, "status=200")
}

func TestGetLogger_Default(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Same(t, slog.Default(), GetLogger(c))
		return nil
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestRequestLogger_WrappedFiberError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestLogger(logger))
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fmt.Errorf("brewing: %w", fiber.ErrTeapot)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Contains(t, buf.String(), "status=418")
}
