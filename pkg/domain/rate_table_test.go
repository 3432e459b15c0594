package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateTable_Rate(t *testing.T) {
	table := &RateTable{
		BaseCurrency: "USD",
		Rates:        map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.92")},
	}

	rate, ok := table.Rate("eur")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.92")))

	_, ok = table.Rate("XYZ")
	assert.False(t, ok)
}

func TestRateTable_RateWithoutRates(t *testing.T) {
	var nilTable *RateTable
	_, ok := nilTable.Rate("EUR")
	assert.False(t, ok)
	assert.False(t, nilTable.HasRates())

	empty := &RateTable{BaseCurrency: "USD"}
	_, ok = empty.Rate("EUR")
	assert.False(t, ok)
	assert.False(t, empty.HasRates())
}

func TestRateTable_TTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name string
		next int64
		want time.Duration
	}{
		{name: "future", next: now.Unix() + 3600, want: time.Hour},
		{name: "now", next: now.Unix(), want: 0},
		{name: "past", next: now.Unix() - 60, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &RateTable{NextUpdateUnix: tt.next}
			assert.Equal(t, tt.want, table.TTL(now))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCode(" usd "))
	assert.Equal(t, "EUR", NormalizeCode("EUR"))
}
