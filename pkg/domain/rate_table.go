// Package domain holds the rate table model and the error taxonomy shared by
// the provider, service and HTTP layers.
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable is the set of conversion rates quoted against a single base
// currency, together with the upstream freshness window.
type RateTable struct {
	BaseCurrency   string                     `json:"base_currency"`
	Rates          map[string]decimal.Decimal `json:"rates"`
	LastUpdateUnix int64                      `json:"last_update_unix"`
	NextUpdateUnix int64                      `json:"next_update_unix"`
}

// Rate returns the rate quoted for code. The lookup is case-insensitive.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	if t == nil || t.Rates == nil {
		return decimal.Zero, false
	}
	rate, ok := t.Rates[NormalizeCode(code)]
	return rate, ok
}

// HasRates reports whether the table carries any rate mapping at all.
func (t *RateTable) HasRates() bool {
	return t != nil && t.Rates != nil
}

// TTL is the time left until the upstream publishes the next update.
// It is zero when that moment is already in the past.
func (t *RateTable) TTL(now time.Time) time.Duration {
	ttl := time.Duration(t.NextUpdateUnix-now.UTC().Unix()) * time.Second
	if ttl < 0 {
		return 0
	}
	return ttl
}

// NormalizeCode upper-cases an ISO 4217 code and trims surrounding spaces.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
