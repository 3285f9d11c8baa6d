package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webiny-go/restroute/internal/config"
	"github.com/webiny-go/restroute/internal/observability"
)

func newTestMemoryCache(t *testing.T, cfg *config.CacheConfig) *memoryCache {
	t.Helper()

	c, err := newMemoryCache(cfg, observability.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))

	value, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)
}

func TestMemoryCacheMiss(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})

	_, err := c.Get(context.Background(), "absent")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 10*time.Millisecond))

	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryCacheDelete(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))
	require.NoError(t, c.Delete(ctx, "key1"))

	_, err := c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	// Deleting an absent key is not an error.
	assert.NoError(t, c.Delete(ctx, "absent"))
}

func TestMemoryCacheExists(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	exists, err := c.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))

	exists, err = c.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{MaxEntries: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("key%d", i), []byte("v"), 0))
	}

	// Touch key0 so key1 becomes the eviction candidate.
	_, err := c.Get(ctx, "key0")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "key3", []byte("v"), 0))

	_, err = c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	_, err = c.Get(ctx, "key0")
	assert.NoError(t, err)
}

func TestMemoryCacheUpdateExisting(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("old"), 0))
	require.NoError(t, c.Set(ctx, "key1", []byte("new"), 0))

	value, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)

	assert.Equal(t, int64(1), c.Stats().Size)
}

func TestMemoryCacheStats(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))

	_, _ = c.Get(ctx, "key1")
	_, _ = c.Get(ctx, "absent")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Size)
	assert.Equal(t, float64(50), stats.HitRate())
}

func TestMemoryCacheCleanup(t *testing.T) {
	t.Parallel()

	c := newTestMemoryCache(t, &config.CacheConfig{})
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "expired", []byte("v"), time.Millisecond))
	require.NoError(t, c.Set(ctx, "fresh", []byte("v"), time.Hour))

	time.Sleep(10 * time.Millisecond)
	c.cleanup()

	assert.Equal(t, int64(1), c.Stats().Size)

	_, err := c.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestNewDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *config.CacheConfig
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "disabled", cfg: &config.CacheConfig{Enabled: false}},
		{name: "memory", cfg: &config.CacheConfig{Enabled: true, Type: config.CacheTypeMemory}},
		{name: "empty type defaults to memory", cfg: &config.CacheConfig{Enabled: true}},
		{name: "unknown type", cfg: &config.CacheConfig{Enabled: true, Type: "memcached"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(tt.cfg, observability.NewNopLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			_ = c.Close()
		})
	}
}

func TestDisabledCache(t *testing.T) {
	t.Parallel()

	c, err := New(&config.CacheConfig{Enabled: false}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))

	// Nothing is retained.
	_, err = c.Get(ctx, "key1")
	assert.True(t, errors.Is(err, ErrCacheMiss))

	exists, err := c.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, c.Delete(ctx, "key1"))
	assert.NoError(t, c.Close())
}
