package cache

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/logging"
)

// GetOrCreate returns the cached value for key, calling create on a miss.
// Concurrent callers for the same key wait for the first one instead of calling create.
// Only errors from create are returned, and they are not cached.
func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, error) {
	// Release the claim if we never fill it, so waiting callers can try themselves
	claimed := false
	set := false
	defer func() {
		if claimed && !set {
			cache.delete(key)
		}
	}()

	logger := logging.FromContext(ctx).With("cacheKey", key)

	for {
		result := cache.getOrClaim(key)

		if result.claimed {
			claimed = true

			logger.DebugContext(ctx, "Cache lookup", "cache", "miss")

			data, err := create()
			if err != nil {
				var empty T
				return empty, fmt.Errorf("failed to create cache entry: %w", err)
			}

			cache.set(key, data)
			set = true

			return data, nil
		}

		if result.valid {
			logger.DebugContext(ctx, "Cache lookup", "cache", "hit")
			return result.data, nil
		}

		if err := ctx.Err(); err != nil {
			var empty T
			return empty, fmt.Errorf("gave up waiting for cache entry: %w", err)
		}
		cache.wait()
	}
}
