// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package notification

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rowanfield/compostly/internal/platform/constants"
	"github.com/rowanfield/compostly/internal/platform/ctxutil"
)

// RedisUnreadCountCache implements the UnreadCountCache interface on Redis.
//
// # Degradation
//
// Every method swallows Redis errors after logging them: the counter always
// has the persistent count as its source of truth, and a cache outage must
// cost latency, not availability.
type RedisUnreadCountCache struct {
	client *redis.Client
}

// NewUnreadCountCache creates a Redis-backed unread counter cache.
func NewUnreadCountCache(client *redis.Client) *RedisUnreadCountCache {
	return &RedisUnreadCountCache{client: client}
}

// Get returns the cached count for a user and whether it was present.
func (cache *RedisUnreadCountCache) Get(ctx context.Context, username string) (int64, bool) {
	value, err := cache.client.Get(ctx, cacheKey(username)).Result()
	if err != nil {
		if err != redis.Nil {
			logCacheFailure(ctx, "get", username, err)
		}
		return 0, false
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Corrupt entry: treat as a miss, it will be overwritten.
		return 0, false
	}

	return count, true
}

// Set stores the count under the standard unread-count TTL.
func (cache *RedisUnreadCountCache) Set(ctx context.Context, username string, count int64) {
	err := cache.client.Set(ctx, cacheKey(username),
		strconv.FormatInt(count, 10), constants.UnreadCountTTL).Err()
	if err != nil {
		logCacheFailure(ctx, "set", username, err)
	}
}

// Invalidate drops the cached count after a write.
func (cache *RedisUnreadCountCache) Invalidate(ctx context.Context, username string) {
	if err := cache.client.Del(ctx, cacheKey(username)).Err(); err != nil {
		logCacheFailure(ctx, "invalidate", username, err)
	}
}

func cacheKey(username string) string {
	return constants.RedisPrefixUnreadCount + username
}

func logCacheFailure(ctx context.Context, operation, username string, err error) {
	ctxutil.GetLogger(ctx).WarnContext(ctx, "unread_count_cache_failed",
		slog.String("operation", operation),
		slog.String("username", username),
		slog.String("error", err.Error()),
	)
}
