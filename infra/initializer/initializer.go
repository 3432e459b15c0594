package initializer

import (
	"fmt"
	"io"
	"log/slog"

	infra_cache "github.com/amirasaad/fxconvert/infra/cache"
	"github.com/amirasaad/fxconvert/infra/metrics"
	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	logger := SetupLogger(cfg.Log)
	return buildDeps(cfg, logger)
}

func buildDeps(cfg *config.App, logger *slog.Logger) (*app.Deps, error) {
	if cfg.ExchangeRateAPIProviders == nil || cfg.ExchangeRateAPIProviders.ExchangeRateApi == nil {
		return nil, fmt.Errorf("exchange rate provider is not configured")
	}
	if cfg.ExchangeRateCache == nil {
		return nil, fmt.Errorf("exchange rate cache is not configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	rateCache, err := newRateCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	upstream := infra_provider.NewExchangeRateAPIProvider(
		cfg.ExchangeRateAPIProviders.ExchangeRateApi,
		m,
		logger,
	)
	rateProvider := infra_provider.NewCachedRateTable(
		upstream,
		rateCache,
		logger,
		infra_provider.WithCoalescing(cfg.ExchangeRateCache.CoalesceMisses),
		infra_provider.WithMetrics(m),
	)

	logger.Info("Dependencies initialized",
		"provider", rateProvider.Name(),
		"coalesce_misses", cfg.ExchangeRateCache.CoalesceMisses,
	)

	return &app.Deps{
		RateCache:    rateCache,
		RateProvider: rateProvider,
		Metrics:      m,
		Gatherer:     reg,
		Logger:       logger,
	}, nil
}

// newRateCache returns a Redis cache when a URL is configured and an
// in-process cache otherwise.
func newRateCache(cfg *config.App, logger *slog.Logger) (cache.RateTableCache, error) {
	url := cfg.CacheURL()
	if url == "" {
		logger.Warn("No cache URL configured; rate tables are cached in process memory")
		return infra_cache.NewMemoryCache(cfg.ExchangeRateCache.SweepInterval), nil
	}

	c, err := infra_cache.NewRedisCache(url, cfg.Redis, cfg.ExchangeRateCache.Prefix, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis rate cache: %w", err)
	}
	logger.Info("Using Redis rate cache", "prefix", cfg.ExchangeRateCache.Prefix)
	return c, nil
}

// Close releases resources held by deps.
func Close(deps *app.Deps) error {
	if deps == nil {
		return nil
	}
	if c, ok := deps.RateCache.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
