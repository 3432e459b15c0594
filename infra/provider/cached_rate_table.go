package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconvert/infra/metrics"
	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/domain"
	"github.com/amirasaad/fxconvert/pkg/provider"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// CachedRateTable is a cache-aside RateTableProvider. Tables are cached per
// base currency until the upstream's announced next update.
//
// Concurrent misses for the same base each call next and each write the
// cache; the last write wins. WithCoalescing collapses them into one call.
type CachedRateTable struct {
	next     provider.RateTableProvider
	cache    cache.RateTableCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	coalesce bool
	group    singleflight.Group
}

// CachedRateTableOption customises a CachedRateTable.
type CachedRateTableOption func(*CachedRateTable)

// WithCoalescing enables per-base single-flight on cache misses.
func WithCoalescing(enabled bool) CachedRateTableOption {
	return func(c *CachedRateTable) { c.coalesce = enabled }
}

// WithClock overrides the time source used to compute TTLs.
func WithClock(now func() time.Time) CachedRateTableOption {
	return func(c *CachedRateTable) { c.now = now }
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) CachedRateTableOption {
	return func(c *CachedRateTable) { c.metrics = m }
}

// NewCachedRateTable creates a new CachedRateTable.
func NewCachedRateTable(
	next provider.RateTableProvider,
	c cache.RateTableCache,
	logger *slog.Logger,
	opts ...CachedRateTableOption,
) *CachedRateTable {
	if logger == nil {
		logger = slog.Default()
	}
	ct := &CachedRateTable{
		next:   next,
		cache:  c,
		logger: logger.With("component", "cached-rate-table"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ct)
	}
	if ct.metrics == nil {
		ct.metrics = metrics.Nop()
	}
	return ct
}

// FetchRateTable returns the table for base from cache, or from the next
// provider on a miss.
func (c *CachedRateTable) FetchRateTable(
	ctx context.Context,
	base string,
) (*domain.RateTable, error) {
	key := domain.NormalizeCode(base)

	table, err := c.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if table != nil {
		return table, nil
	}

	if !c.coalesce {
		return c.refresh(ctx, key)
	}
	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.refresh(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Shared in-flight upstream fetch", "key", key)
	}
	return v.(*domain.RateTable), nil
}

// lookup returns nil, nil on a miss. Undecodable entries count as misses so
// the refresh overwrites them.
func (c *CachedRateTable) lookup(ctx context.Context, key string) (*domain.RateTable, error) {
	raw, err := c.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		c.metrics.ObserveCacheLookup(metrics.CacheMiss)
		c.logger.Debug("Cache miss for rate table, fetching from next provider", "key", key)
		return nil, nil
	}
	if err != nil {
		c.metrics.ObserveCacheLookup(metrics.CacheError)
		c.logger.Error("Error getting rate table from cache", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCache, err)
	}

	var table domain.RateTable
	if err := json.Unmarshal(raw, &table); err != nil {
		c.metrics.ObserveCacheLookup(metrics.CacheCorrupt)
		c.logger.Warn("Discarding undecodable cached rate table", "key", key, "error", err)
		return nil, nil
	}
	c.metrics.ObserveCacheLookup(metrics.CacheHit)
	c.logger.Debug("Cache hit for rate table", "key", key)
	return &table, nil
}

func (c *CachedRateTable) refresh(ctx context.Context, key string) (*domain.RateTable, error) {
	table, err := c.next.FetchRateTable(ctx, key)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, table)
	return table, nil
}

// store writes table with a TTL running until the upstream's next update.
// Tables already past that point are not cached at all. Write failures are
// logged; the caller still gets the fresh table.
func (c *CachedRateTable) store(ctx context.Context, key string, table *domain.RateTable) {
	ttl := table.TTL(c.now())
	if ttl <= 0 {
		c.metrics.ObserveCacheWrite(metrics.CacheSkipped)
		c.logger.Warn("Upstream next update already due, not caching rate table",
			"key", key,
			"next_update_unix", table.NextUpdateUnix,
		)
		return
	}

	data, err := json.Marshal(table)
	if err != nil {
		c.metrics.ObserveCacheWrite(metrics.CacheWriteError)
		c.logger.Error("Error encoding rate table", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.metrics.ObserveCacheWrite(metrics.CacheWriteError)
		c.logger.Error("Error setting cache for rate table", "key", key, "error", err)
		return
	}
	c.metrics.ObserveCacheWrite(metrics.CacheStored)
	c.logger.Debug("Rate table cached", "key", key, "ttl", ttl)
}

// Name returns the provider's name.
func (c *CachedRateTable) Name() string {
	return fmt.Sprintf("Cached(%s)", c.next.Name())
}

// Ensure CachedRateTable implements provider.RateTableProvider
var _ provider.RateTableProvider = (*CachedRateTable)(nil)
