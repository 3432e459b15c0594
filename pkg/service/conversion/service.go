// Package conversion converts an amount between currencies using the rate
// table of the source currency.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strings"

	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Messages returned to clients.
const (
	MsgUpstreamFailure = "Error, something went wrong"
	MsgCacheFailure    = "Error, rate cache unavailable"
	MsgNoRateData      = "No data found for exchange rate"
)

// Request carries the raw conversion parameters. Field tags name the query
// parameters they are bound from.
type Request struct {
	FromValue    string `query:"fromValue" validate:"required"`
	FromCurrency string `query:"fromCurrency" validate:"required"`
	ToCurrency   string `query:"toCurrency" validate:"required"`
}

// Result is a successful conversion.
type Result struct {
	FromCurrency   string
	ToCurrency     string
	Rate           decimal.Decimal
	ConvertedValue decimal.Decimal
	LastUpdateUnix int64
}

// Error is a terminal conversion failure. Kind is one of the domain sentinel
// errors; Message is safe to show to the client.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Service validates, fetches the source currency's rate table and converts.
type Service struct {
	rates  provider.RateTableProvider
	logger *slog.Logger
}

func NewService(rates provider.RateTableProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		rates:  rates,
		logger: logger.With("component", "conversion-service"),
	}
}

// Convert runs a single conversion. Every failure is returned as *Error.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	req = normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// A malformed amount is reported as an internal error, not a bad request.
	amount, err := parseAmount(req.FromValue)
	if err != nil {
		return nil, newError(domain.ErrInternal, err,
			"Unable to parse fromValue '%s' as a decimal number", req.FromValue)
	}

	from := req.FromCurrency
	to := req.ToCurrency

	table, err := s.rates.FetchRateTable(ctx, from)
	if err != nil {
		s.logger.Warn("Failed to fetch rate table", "from", from, "error", err)
		switch {
		case errors.Is(err, domain.ErrCache):
			return nil, newError(domain.ErrCache, err, MsgCacheFailure)
		default:
			return nil, newError(domain.ErrUpstream, err, MsgUpstreamFailure)
		}
	}

	if !table.HasRates() {
		return nil, newError(domain.ErrNotFound, nil, MsgNoRateData)
	}

	rate, ok := table.Rate(to)
	if !ok {
		return nil, newError(domain.ErrNotFound, nil, "Currency %s not found", to)
	}

	converted := amount.Mul(rate)
	s.logger.Debug("Converted amount",
		"from", from,
		"to", to,
		"amount", amount,
		"rate", rate,
		"converted", converted,
	)
	return &Result{
		FromCurrency:   from,
		ToCurrency:     to,
		Rate:           rate,
		ConvertedValue: converted,
		LastUpdateUnix: table.LastUpdateUnix,
	}, nil
}

// Amounts are limited to what a 96-bit decimal can hold: at most 29
// significant digits and a scale of at most 28.
const (
	maxAmountDigits = 29
	maxAmountScale  = 28
)

var errAmountOutOfRange = errors.New("value out of range")

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	digits := len(new(big.Int).Abs(amount.Coefficient()).String())
	exp := int(amount.Exponent())
	if exp < -maxAmountScale || digits > maxAmountDigits || digits+exp > maxAmountDigits {
		return decimal.Zero, errAmountOutOfRange
	}
	return amount, nil
}

func normalizeRequest(req Request) Request {
	return Request{
		FromValue:    strings.TrimSpace(req.FromValue),
		FromCurrency: domain.NormalizeCode(req.FromCurrency),
		ToCurrency:   domain.NormalizeCode(req.ToCurrency),
	}
}

// validateRequest reports the first missing parameter in declaration order.
func validateRequest(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return newError(domain.ErrValidation, nil, "Missing the query parameter %s", verrs[0].Field())
	}
	return newError(domain.ErrValidation, err, "Invalid request")
}
