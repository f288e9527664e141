package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

const cacheKeyPrefix = "bundlewatch:snapshot:"

// Cached stores snapshots in Redis keyed by selection. Coarser ranges are
// kept longer. Any cache failure falls through to the wrapped provider.
type Cached struct {
	analytics.Provider
	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps inner with a Redis cache. ttl applies to minute-granularity
// ranges and is scaled up for coarser ones.
func NewCached(inner analytics.Provider, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{Provider: inner, client: client, ttl: ttl}
}

// NewRedisClient creates a client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// TTLFor returns how long a snapshot of r may be served from cache.
func (c *Cached) TTLFor(r metrics.TimeRange) time.Duration {
	switch r.Granularity {
	case metrics.GranularityHour:
		return 2 * c.ttl
	case metrics.GranularityDay:
		return 4 * c.ttl
	case metrics.GranularityWeek:
		return 8 * c.ttl
	default:
		return c.ttl
	}
}

func cacheKey(r metrics.TimeRange) string {
	return cacheKeyPrefix + r.Key()
}

// GetMetrics serves a cached snapshot when present, otherwise fetches and
// caches the result. A cached snapshot is labelled with the requested range.
func (c *Cached) GetMetrics(ctx context.Context, r metrics.TimeRange) (*metrics.Snapshot, error) {
	key := cacheKey(r)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap metrics.Snapshot
		if jerr := json.Unmarshal(data, &snap); jerr == nil {
			logger.Debug("Snapshot cache hit", "key", key)
			// Named periods share a key while their bounds slide forward.
			snap.Range = r
			return &snap, nil
		}
		logger.Warn("Discarding malformed cached snapshot", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("Snapshot cache unavailable", "error", err)
	}

	snap, err := c.Provider.GetMetrics(ctx, r)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(snap); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.TTLFor(r)).Err(); err != nil {
			logger.Warn("Failed to cache snapshot", "key", key, "error", err)
		}
	}
	return snap, nil
}

// Invalidate drops every cached snapshot.
func (c *Cached) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close closes the Redis client.
func (c *Cached) Close() error {
	return c.client.Close()
}

var _ analytics.Provider = (*Cached)(nil)
