package conversion

import (
	"errors"
	"strconv"

	"github.com/amirasaad/fxconvert/infra/metrics"
	"github.com/amirasaad/fxconvert/pkg/middleware"
	"github.com/amirasaad/fxconvert/pkg/service/conversion"
	"github.com/amirasaad/fxconvert/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the conversion endpoint. GET and POST behave the same;
// parameters are always read from the query string.
func Routes(app *fiber.App, svc *conversion.Service, m *metrics.Metrics) {
	h := Convert(svc, m)
	app.Get("/api/convert", h)
	app.Post("/api/convert", h)
}

// Convert returns a Fiber handler converting an amount between currencies.
// @Summary Convert an amount between currencies
// @Description Converts fromValue from fromCurrency to toCurrency using live rates
// @Tags conversion
// @Produce json
// @Param fromValue query string true "Amount to convert"
// @Param fromCurrency query string true "Source currency (ISO 4217)"
// @Param toCurrency query string true "Target currency (ISO 4217)"
// @Success 200 {object} ConversionResponse
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /api/convert [get]
func Convert(svc *conversion.Service, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := middleware.GetLogger(c)

		var req conversion.Request
		if err := c.QueryParser(&req); err != nil {
			log.Warn("Failed to parse query", "error", err)
			return respondError(c, m, fiber.StatusBadRequest, "Invalid query string")
		}

		res, err := svc.Convert(c.UserContext(), req)
		if err != nil {
			var cerr *conversion.Error
			if !errors.As(err, &cerr) {
				return err
			}
			status := common.ErrorToStatusCode(err)
			if status >= fiber.StatusInternalServerError {
				log.Error("Conversion failed", "status", status, "error", err)
			} else {
				log.Info("Conversion rejected", "status", status, "error", err)
			}
			return respondError(c, m, status, cerr.Message)
		}

		m.Conversions.WithLabelValues(strconv.Itoa(fiber.StatusOK)).Inc()
		return c.Status(fiber.StatusOK).JSON(toResponse(res))
	}
}

func respondError(c *fiber.Ctx, m *metrics.Metrics, status int, message string) error {
	m.Conversions.WithLabelValues(strconv.Itoa(status)).Inc()
	return common.ErrorResponseText(c, status, message)
}
