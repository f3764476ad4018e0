// Copyright (c) 2026 Identra. All rights reserved.
// Author: dev@identra.io

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/identra/identra/internal/platform/apperr"
	"github.com/identra/identra/internal/platform/constants"
)

// # Stats Cache

// RedisStatsCache implements [StatsCache] using Redis.
//
// Stats are a snapshot over the full collection; serving a slightly stale
// snapshot is acceptable, so the cache uses a plain TTL with no invalidation
// on account writes.
type RedisStatsCache struct {
	client *redis.Client
}

// NewRedisStatsCache creates a new Redis-backed [StatsCache].
func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

/*
Get retrieves the cached stats snapshot.

Description: Returns apperr.NotFound on a cache miss or an unreadable payload.

Parameters:
  - context: context.Context

Returns:
  - *Stats: Cached snapshot
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisStatsCache) Get(context context.Context) (*Stats, error) {

	// Fetch the serialized snapshot
	payload, err := cache.client.Get(context, constants.RedisPrefixStats).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Stats snapshot")
		}
		return nil, fmt.Errorf("redis_stats_cache_get_failed: %w", err)
	}

	// Decode the snapshot. A corrupt payload counts as a miss.
	stats := &Stats{}
	if err := json.Unmarshal(payload, stats); err != nil {
		return nil, apperr.NotFound("Stats snapshot")
	}

	return stats, nil
}

/*
Set stores a stats snapshot with a TTL.

Parameters:
  - context: context.Context
  - stats: *Stats
  - ttl: time.Duration

Returns:
  - error: Serialization or storage failures
*/
func (cache *RedisStatsCache) Set(context context.Context, stats *Stats, ttl time.Duration) error {

	// Serialize the snapshot
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("redis_stats_cache_marshal_failed: %w", err)
	}

	// Store with TTL
	if err := cache.client.Set(context, constants.RedisPrefixStats, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_stats_cache_set_failed: %w", err)
	}

	return nil
}
