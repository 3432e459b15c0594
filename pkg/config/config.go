package config

import (
	"time"
)

type Redis struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10" validate:"gte=1"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s" validate:"gt=0"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s" validate:"gt=0"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s" validate:"gt=0"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100" validate:"gte=0"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m" validate:"gt=0"`
}

type ExchangeRateApi struct {
	ApiKey      string        `envconfig:"API_KEY" validate:"required"`
	ApiUrl      string        `envconfig:"API_URL" default:"https://v6.exchangerate-api.com/v6" validate:"required,url"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
}

type ExchangeRateProviders struct {
	ExchangeRateApi *ExchangeRateApi `envconfig:"EXCHANGERATE" validate:"required"`
}

// ExchangeRateCache controls where rate tables are cached. An empty Url falls
// back to the process-local memory cache.
type ExchangeRateCache struct {
	Prefix         string        `envconfig:"PREFIX" default:"exr:table:"`
	Url            string        `envconfig:"URL"`
	CoalesceMisses bool          `envconfig:"COALESCE_MISSES" default:"false"`
	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m" validate:"gt=0"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[fxconvert]"`
}

type Server struct {
	Scheme          string        `envconfig:"SCHEME" default:"http"`
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"3000" validate:"gt=0,lte=65535"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the header is ignored.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type App struct {
	Env                      string                 `envconfig:"APP_ENV" default:"development"`
	Server                   *Server                `envconfig:"SERVER" validate:"required"`
	Log                      *Log                   `envconfig:"LOG" validate:"required"`
	Redis                    *Redis                 `envconfig:"REDIS" validate:"required"`
	RateLimit                *RateLimit             `envconfig:"RATE_LIMIT" validate:"required"`
	ExchangeRateCache        *ExchangeRateCache     `envconfig:"EXCHANGE_RATE_CACHE" validate:"required"`
	ExchangeRateAPIProviders *ExchangeRateProviders `envconfig:"EXCHANGE_RATE_PROVIDER" validate:"required"`
}

// CacheURL returns the connection string used for the rate cache. The
// dedicated cache URL wins over the shared Redis URL.
func (a *App) CacheURL() string {
	if a.ExchangeRateCache != nil && a.ExchangeRateCache.Url != "" {
		return a.ExchangeRateCache.Url
	}
	if a.Redis != nil {
		return a.Redis.URL
	}
	return ""
}
