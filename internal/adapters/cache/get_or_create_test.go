package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCallback(data int) func() (string, error) {
	return func() (string, error) {
		return fmt.Sprintf("data%d", data), nil
	}
}

func createUnreachable(t *testing.T) func() (string, error) {
	return func() (string, error) {
		t.Fatal("Unreachable code executed")
		return "", nil
	}
}

func caches() []struct {
	name  string
	cache Cache[string]
} {
	return []struct {
		name  string
		cache Cache[string]
	}{
		{name: "BasicCache", cache: NewBasicCache[string]()},
		{name: "TTLCache", cache: NewTTLCache[string](time.Minute)},
	}
}

func TestCacheImpl(t *testing.T) {
	t.Parallel()

	for _, c := range caches() {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			result := c.cache.getOrClaim("key")
			require.True(t, result.claimed, "Expected entry to not exist and get claimed")

			result = c.cache.getOrClaim("key")
			require.False(t, result.claimed, "Expected entry to exist and not get claimed")
			require.False(t, result.valid, "Expected entry to be invalid")

			c.cache.set("key", "value")
			result = c.cache.getOrClaim("key")
			require.False(t, result.claimed)
			require.True(t, result.valid)
			require.Equal(t, "value", result.data)

			c.cache.delete("key")
			result = c.cache.getOrClaim("key")
			require.True(t, result.claimed, "Expected to not find a value")

			c.cache.delete("missing")
		})
	}
}

func TestTTLCacheExpires(t *testing.T) {
	t.Parallel()

	cache := NewTTLCache[string](20 * time.Millisecond)
	cache.set("key", "value")

	require.Eventually(t, func() bool {
		return cache.getOrClaim("key").claimed
	}, time.Second, 10*time.Millisecond)
}

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	for _, c := range caches() {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			data, err := GetOrCreate(ctx, c.cache, "key1", createCallback(1))
			require.NoError(t, err)
			require.Equal(t, "data1", data)

			data, err = GetOrCreate(ctx, c.cache, "key1", createUnreachable(t))
			require.NoError(t, err)
			require.Equal(t, "data1", data)

			data, err = GetOrCreate(ctx, c.cache, "key2", createCallback(2))
			require.NoError(t, err)
			require.Equal(t, "data2", data)
		})
	}
}

func TestGetOrCreateCleansUpOnError(t *testing.T) {
	t.Parallel()

	for _, c := range caches() {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, err := GetOrCreate(ctx, c.cache, "key1", func() (string, error) {
				return "", assert.AnError
			})
			require.ErrorIs(t, err, assert.AnError)

			// The cache should be empty and allow us to create a new entry
			data, err := GetOrCreate(ctx, c.cache, "key1", createCallback(1))
			require.NoError(t, err)
			require.Equal(t, "data1", data)
		})
	}
}

func TestGetOrCreateGivesUpWhenContextIsDone(t *testing.T) {
	t.Parallel()

	cache := NewBasicCache[string]()
	// Claimed by someone who never fills it
	require.True(t, cache.getOrClaim("key").claimed)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := GetOrCreate(ctx, cache, "key", createUnreachable(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetOrCreateDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := NewTTLCache[string](time.Minute)

	for testIndex := range 20 {
		key := fmt.Sprintf("key%d", testIndex)

		var calls atomic.Int32
		create := func() (string, error) {
			calls.Add(1)
			time.Sleep(5 * time.Millisecond)
			return "data", nil
		}

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				data, err := GetOrCreate(ctx, cache, key, create)
				assert.NoError(t, err)
				assert.Equal(t, "data", data)
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), calls.Load(), "Callback should only be called once")
	}
}
