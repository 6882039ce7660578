package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seoultrip/planner/internal/metrics"
	"github.com/seoultrip/planner/internal/planner"
)

// Cache stores opaque values with an expiry. Get reports a miss with
// ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, val, ttl).Err()
}

// CachedSource is a read-through cache in front of another source. Cache
// errors are logged and bypassed; empty batches are not cached.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSource(source Source, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	return &CachedSource{source: source, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(themeID int64, transportMode string) string {
	return fmt.Sprintf("catalog:activities:%d:%s", themeID, transportMode)
}

func (s *CachedSource) FetchActivities(ctx context.Context, themeID int64, transportMode string) ([]planner.Activity, error) {
	key := cacheKey(themeID, transportMode)

	b, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("catalog cache read failed", "key", key, "error", err)
	case ok:
		var acts []planner.Activity
		if err := json.Unmarshal(b, &acts); err == nil {
			metrics.RecordCatalogRequest("cache", nil)
			return acts, nil
		}
		s.logger.Warn("discarding undecodable catalog cache entry", "key", key)
	}

	acts, err := s.source.FetchActivities(ctx, themeID, transportMode)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return acts, nil
	}

	b, err = json.Marshal(acts)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog batch: %w", err)
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return acts, nil
}
