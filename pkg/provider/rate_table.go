package provider

import (
	"context"

	"github.com/amirasaad/fxconvert/pkg/domain"
)

// RateTableProvider returns the full rate table quoted against base.
type RateTableProvider interface {
	// FetchRateTable fails with domain.ErrUpstream or domain.ErrCache.
	FetchRateTable(ctx context.Context, base string) (*domain.RateTable, error)

	// Name returns the provider's name for logging and identification.
	Name() string
}
