package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
)

// MemoryCache implements cache.RateTableCache using in-memory storage
type MemoryCache struct {
	cache map[string]cacheEntry
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache that sweeps expired entries
// every sweepInterval.
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]cacheEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.cleanup(sweepInterval)
	}
	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists || !c.now().Before(entry.expiresAt) {
		return nil, cache.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value in cache with TTL
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("memory cache: non-positive ttl %s for key %s", ttl, key)
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

// TTL returns the remaining lifetime of key, or false if it is absent.
func (c *MemoryCache) TTL(key string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.cache[key]
	if !exists {
		return 0, false
	}
	ttl := entry.expiresAt.Sub(c.now())
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Close stops the sweeper goroutine.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// cleanup removes expired entries from cache
func (c *MemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.cache {
		if !now.Before(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}

var _ cache.RateTableCache = (*MemoryCache)(nil)
