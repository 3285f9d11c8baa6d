package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webiny-go/restroute/internal/config"
	"github.com/webiny-go/restroute/internal/observability"
)

// setupMiniRedis creates a miniredis server for testing.
func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr
}

func newTestRedisCache(t *testing.T, mr *miniredis.Miniredis) *redisCache {
	t.Helper()

	c, err := newRedisCache(&config.CacheConfig{
		Enabled: true,
		Type:    config.CacheTypeRedis,
		TTL:     config.Duration(5 * time.Minute),
		Redis:   &config.RedisConfig{Addr: mr.Addr()},
	}, observability.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestNewRedisCache(t *testing.T) {
	mr := setupMiniRedis(t)

	tests := []struct {
		name      string
		cfg       *config.CacheConfig
		expectErr bool
	}{
		{
			name: "valid config",
			cfg: &config.CacheConfig{
				TTL:   config.Duration(5 * time.Minute),
				Redis: &config.RedisConfig{Addr: mr.Addr()},
			},
		},
		{
			name: "with pool size and timeouts",
			cfg: &config.CacheConfig{
				Redis: &config.RedisConfig{
					Addr:           mr.Addr(),
					PoolSize:       10,
					ConnectTimeout: config.Duration(5 * time.Second),
					ReadTimeout:    config.Duration(3 * time.Second),
					WriteTimeout:   config.Duration(3 * time.Second),
				},
			},
		},
		{
			name:      "missing redis config",
			cfg:       &config.CacheConfig{},
			expectErr: true,
		},
		{
			name: "missing addr",
			cfg: &config.CacheConfig{
				Redis: &config.RedisConfig{},
			},
			expectErr: true,
		},
		{
			name: "unreachable server",
			cfg: &config.CacheConfig{
				Redis: &config.RedisConfig{
					Addr:           "127.0.0.1:1",
					ConnectTimeout: config.Duration(100 * time.Millisecond),
				},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newRedisCache(tt.cfg, observability.NewNopLogger())
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			_ = c.Close()
		})
	}
}

func TestRedisCacheSetGet(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))

	value, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)

	// Keys are namespaced behind the prefix.
	assert.True(t, mr.Exists("restroute:key1"))
}

func TestRedisCacheMiss(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)

	_, err := c.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisCacheDelete(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))
	require.NoError(t, c.Delete(ctx, "key1"))

	_, err := c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestRedisCacheExists(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))

	exists, err = c.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisCacheCustomKeyPrefix(t *testing.T) {
	mr := setupMiniRedis(t)

	c, err := newRedisCache(&config.CacheConfig{
		Redis: &config.RedisConfig{
			Addr:      mr.Addr(),
			KeyPrefix: "tables:",
		},
	}, observability.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "key1", []byte("v"), 0))
	assert.True(t, mr.Exists("tables:key1"))
}

func TestRedisCacheStats(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))
	_, _ = c.Get(ctx, "key1")
	_, _ = c.Get(ctx, "absent")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestRedisCacheServerGone(t *testing.T) {
	mr := setupMiniRedis(t)
	c := newTestRedisCache(t, mr)

	mr.Close()

	_, err := c.Get(context.Background(), "key1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCacheMiss))
}
