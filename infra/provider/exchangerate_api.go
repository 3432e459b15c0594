package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/fxconvert/infra/metrics"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const exchangeRateAPIName = "exchangerate-api"

// ExchangeRateAPIProvider fetches full rate tables from the
// exchangerate-api.com v6 "latest" endpoint.
type ExchangeRateAPIProvider struct {
	apiKey  string
	client  *resty.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ExchangeRateAPIResponseV6 represents the v6 response from the ExchangeRate API
// See: https://www.exchangerate-api.com/docs/standard-requests
type ExchangeRateAPIResponseV6 struct {
	Result             string                     `json:"result"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	TimeNextUpdateUnix int64                      `json:"time_next_update_unix"`
	BaseCode           string                     `json:"base_code"`
	ConversionRates    map[string]decimal.Decimal `json:"conversion_rates"`
	ErrorType          string                     `json:"error-type,omitempty"`
}

// NewExchangeRateAPIProvider creates the provider from config. The HTTP
// timeout bounds every upstream call.
func NewExchangeRateAPIProvider(
	cfg *config.ExchangeRateApi,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ExchangeRateAPIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.Nop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ApiUrl, "/")).
		SetTimeout(cfg.HTTPTimeout).
		SetHeader("Accept", "application/json")

	return &ExchangeRateAPIProvider{
		apiKey:  cfg.ApiKey,
		client:  client,
		logger:  logger.With("component", "exchangerate-api"),
		metrics: m,
	}
}

// FetchRateTable calls GET {base_url}/{api_key}/latest/{base}.
func (p *ExchangeRateAPIProvider) FetchRateTable(
	ctx context.Context,
	base string,
) (*domain.RateTable, error) {
	base = domain.NormalizeCode(base)
	started := time.Now()
	p.logger.Debug("Fetching exchange rates from API", "base", base)

	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"apiKey": p.apiKey,
			"base":   base,
		}).
		Get("/{apiKey}/latest/{base}")
	if err != nil {
		p.metrics.ObserveUpstream(p.Name(), "transport_error", started)
		p.logger.Warn("Exchange rate request failed", "base", base, "error", err)
		return nil, fmt.Errorf("%w: request failed: %w", domain.ErrUpstream, err)
	}

	if !resp.IsSuccess() {
		p.metrics.ObserveUpstream(p.Name(), "http_error", started)
		p.logger.Warn("Exchange rate API returned error status",
			"base", base,
			"status", resp.StatusCode(),
		)
		return nil, fmt.Errorf("%w: API returned status %d", domain.ErrUpstream, resp.StatusCode())
	}

	var apiResp ExchangeRateAPIResponseV6
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		p.metrics.ObserveUpstream(p.Name(), "decode_error", started)
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrUpstream, err)
	}

	if apiResp.Result != "success" {
		p.metrics.ObserveUpstream(p.Name(), "api_error", started)
		p.logger.Warn("Exchange rate API returned unsuccessful result",
			"base", base,
			"result", apiResp.Result,
			"error_type", apiResp.ErrorType,
		)
		return nil, fmt.Errorf("%w: API returned result=%s error-type=%s",
			domain.ErrUpstream, apiResp.Result, apiResp.ErrorType)
	}

	p.metrics.ObserveUpstream(p.Name(), "success", started)
	p.logger.Info("Exchange rates fetched",
		"base", base,
		"count", len(apiResp.ConversionRates),
		"next_update_unix", apiResp.TimeNextUpdateUnix,
	)
	return apiResp.toRateTable(base), nil
}

func (r *ExchangeRateAPIResponseV6) toRateTable(base string) *domain.RateTable {
	var rates map[string]decimal.Decimal
	if r.ConversionRates != nil {
		rates = make(map[string]decimal.Decimal, len(r.ConversionRates))
		for code, rate := range r.ConversionRates {
			rates[domain.NormalizeCode(code)] = rate
		}
	}
	return &domain.RateTable{
		BaseCurrency:   base,
		Rates:          rates,
		LastUpdateUnix: r.TimeLastUpdateUnix,
		NextUpdateUnix: r.TimeNextUpdateUnix,
	}
}

// Name returns the provider's name
func (p *ExchangeRateAPIProvider) Name() string {
	return exchangeRateAPIName
}

// Ensure ExchangeRateAPIProvider implements provider.RateTableProvider
var _ provider.RateTableProvider = (*ExchangeRateAPIProvider)(nil)
