// Package webapi wires the HTTP surface of the conversion service:
// - conversion: GET/POST /api/convert
// - health and metrics endpoints
package webapi

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/middleware"
	"github.com/amirasaad/fxconvert/webapi/common"
	conversionweb "github.com/amirasaad/fxconvert/webapi/conversion"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	deps := a.Deps

	fiberCfg := fiber.Config{
		AppName:     "fxconvert",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseText(c, fe.Code, fe.Message)
			}
			middleware.GetLogger(c).Error("Unhandled error", "error", err)
			return common.ErrorResponseText(c, fiber.StatusInternalServerError, "Internal Server Error")
		},
	}
	// c.IP() only honours the proxy header when the peer is a trusted proxy.
	if srv := a.Config.Server; srv != nil && len(srv.TrustedProxies) > 0 {
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = srv.TrustedProxies
	}
	fiberApp := fiber.New(fiberCfg)

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	fiberApp.Use(middleware.RequestLogger(deps.Logger))

	if rl := a.Config.RateLimit; rl != nil && rl.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:        rl.MaxRequests,
			Expiration: rl.Window,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return common.ErrorResponseText(c, fiber.StatusTooManyRequests, "Too Many Requests")
			},
		}))
	}

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})
	fiberApp.Get("/health", health(a))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	conversionweb.Routes(fiberApp, a.ConversionService, deps.Metrics)

	return fiberApp
}

func health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := a.Deps.RateCache.Ping(ctx); err != nil {
			middleware.GetLogger(c).Warn("Rate cache ping failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "provider": a.Deps.RateProvider.Name()})
	}
}
