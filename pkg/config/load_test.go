package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY", "test-key-123456")
	unsetEnv(t, "REDIS_URL", "EXCHANGE_RATE_CACHE_URL", "SERVER_TRUSTED_PROXIES")

	cfg, err := Load()
	require.NoError(t, err)

	api := cfg.ExchangeRateAPIProviders.ExchangeRateApi
	assert.Equal(t, "test-key-123456", api.ApiKey)
	assert.Equal(t, "https://v6.exchangerate-api.com/v6", api.ApiUrl)
	assert.Equal(t, 10*time.Second, api.HTTPTimeout)
	assert.Equal(t, "exr:table:", cfg.ExchangeRateCache.Prefix)
	assert.False(t, cfg.ExchangeRateCache.CoalesceMisses)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Empty(t, cfg.CacheURL(), "no Redis URL means the in-process cache")
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_RedisURLAndTrustedProxies(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY", "test-key-123456")
	t.Setenv("REDIS_URL", "redis://redis:6379/0")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://redis:6379/0", cfg.CacheURL())
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.Server.TrustedProxies)
}

func TestLoad_MissingApiKey(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ApiKey")
}

func TestLoad_InvalidApiUrl(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY", "key")
	t.Setenv("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ApiUrl")
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY=from-file-key\n" +
		"EXCHANGE_RATE_CACHE_URL=redis://cache:6379/1\n" +
		"EXCHANGE_RATE_CACHE_COALESCE_MISSES=true\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set, so make sure
	// the process environment does not shadow the file.
	unsetEnv(t,
		"EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY",
		"EXCHANGE_RATE_CACHE_URL",
		"EXCHANGE_RATE_CACHE_COALESCE_MISSES",
	)

	cfg, err := Load("test.env")
	require.NoError(t, err)
	assert.Equal(t, "from-file-key", cfg.ExchangeRateAPIProviders.ExchangeRateApi.ApiKey)
	assert.Equal(t, "redis://cache:6379/1", cfg.CacheURL())
	assert.True(t, cfg.ExchangeRateCache.CoalesceMisses)
}

func TestFindEnvFile_NotFound(t *testing.T) {
	_, err := FindEnvFile("definitely-not-here.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "re****6379", maskValue("redis://localhost:6379"))
}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
