package cache

import (
	"context"
	"log/slog"
	"time"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeSet caches a value with logging; a cache write failure never fails the
// read path it sits on.
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.WarnContext(ctx, "Failed to set cache key",
			"error", err,
			"key", key)
	}
}

// InvalidateLookupCache drops the discipline/class reference caches after an
// upstream import refreshes them.
func InvalidateLookupCache(ctx context.Context, lookup *CacheHelper) {
	SafeDelete(ctx, lookup, "disciplines", "classes")
}
