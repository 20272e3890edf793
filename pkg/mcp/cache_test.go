package mcp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	cache := NewCache(CacheMaxSize)

	cache.Set("k", "valor", CacheTTL)

	value, exists := cache.Get("k")
	require.True(t, exists)
	require.Equal(t, "valor", value)

	_, exists = cache.Get("outro")
	require.False(t, exists)
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	cache := NewCache(10)

	cache.Set("k", "valor", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, exists := cache.Get("k")
	require.False(t, exists)
	require.Equal(t, 0, cache.Len())
}

func TestCacheEvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	cache := NewCache(3)

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("k%d", i), i, time.Minute)
	}
	cache.Set("k3", 3, time.Minute)

	require.Equal(t, 3, cache.Len())

	_, exists := cache.Get("k0")
	require.False(t, exists)

	_, exists = cache.Get("k3")
	require.True(t, exists)
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()

	cache := NewCache(2)

	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)
	cache.Set("a", 3, time.Minute)

	require.Equal(t, 2, cache.Len())

	value, exists := cache.Get("a")
	require.True(t, exists)
	require.Equal(t, 3, value)

	_, exists = cache.Get("b")
	require.True(t, exists)
}

func TestCacheCleanup(t *testing.T) {
	t.Parallel()

	cache := NewCache(10)

	cache.Set("viva", 1, time.Minute)
	cache.Set("morta", 2, 5*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	cache.Cleanup()

	require.Equal(t, 1, cache.Len())

	_, exists := cache.Get("viva")
	require.True(t, exists)
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := NewCache(10)

	cache.Set("a", 1, time.Minute)
	cache.Set("b", 2, time.Minute)

	cache.Delete("a")
	require.Equal(t, 1, cache.Len())

	cache.Clear()
	require.Equal(t, 0, cache.Len())
}
