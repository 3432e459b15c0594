package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements cache.RateTableCache using Redis.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a RedisCache from a redis:// connection URL. Pool and
// timeout settings come from cfg and override anything encoded in the URL.
func NewRedisCache(
	url string,
	cfg *config.Redis,
	prefix string,
	logger *slog.Logger,
) (*RedisCache, error) {
	if url == "" {
		return nil, fmt.Errorf("redis cache: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis cache: invalid URL: %w", err)
	}
	if cfg != nil {
		opt.PoolSize = cfg.PoolSize
		opt.DialTimeout = cfg.DialTimeout
		opt.ReadTimeout = cfg.ReadTimeout
		opt.WriteTimeout = cfg.WriteTimeout
	}
	return NewRedisCacheWithClient(redis.NewClient(opt), prefix, logger), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(
	client redis.UniversalClient,
	prefix string,
	logger *slog.Logger,
) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis-cache"),
	}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "bytes", len(val))
	return val, nil
}

// Set stores value under key. A non-positive ttl is rejected, since Redis
// would keep such an entry forever.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis cache: non-positive ttl %s for key %s", ttl, key)
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

var _ cache.RateTableCache = (*RedisCache)(nil)
