package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryCache(t *testing.T) (*MemoryCache, *time.Time) {
	t.Helper()
	c := NewMemoryCache(0)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	t.Cleanup(func() { _ = c.Close() })
	return c, &now
}

func TestMemoryCache_SetGet(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "USD", []byte(`{"base_currency":"USD"}`), time.Minute))

	got, err := c.Get(ctx, "USD")
	require.NoError(t, err)
	assert.JSONEq(t, `{"base_currency":"USD"}`, string(got))

	ttl, ok := c.TTL("USD")
	assert.True(t, ok)
	assert.Equal(t, time.Minute, ttl)
}

func TestMemoryCache_Miss(t *testing.T) {
	c, _ := newTestMemoryCache(t)

	_, err := c.Get(context.Background(), "EUR")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, now := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "USD", []byte("x"), 10*time.Second))

	*now = now.Add(10 * time.Second)
	_, err := c.Get(ctx, "USD")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	_, ok := c.TTL("USD")
	assert.False(t, ok)

	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_RejectsNonPositiveTTL(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	assert.Error(t, c.Set(ctx, "USD", []byte("x"), 0))
	assert.Error(t, c.Set(ctx, "USD", []byte("x"), -time.Second))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_LastWriterWins(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "USD", []byte("first"), time.Minute))
	require.NoError(t, c.Set(ctx, "USD", []byte("second"), 2*time.Minute))

	got, err := c.Get(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
	ttl, _ := c.TTL("USD")
	assert.Equal(t, 2*time.Minute, ttl)
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c, _ := newTestMemoryCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "USD", []byte("abc"), time.Minute))
	got, err := c.Get(ctx, "USD")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := c.Get(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
