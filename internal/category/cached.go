package category

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	platformredis "citywatch/internal/platform/redis"
)

const (
	cacheKeyAll    = "citywatch:categories:all"
	cacheKeyPrefix = "citywatch:categories:"
)

// CachedStore is a Redis read-through in front of another Store. Categories
// are static reference data, so a stale entry within the TTL is harmless.
// Tally data never goes through here.
type CachedStore struct {
	inner Store
	redis *platformredis.Client
	ttl   time.Duration
}

// NewCached wraps inner with a Redis cache. With a nil client it degrades to
// a pass-through, so callers wire it unconditionally.
func NewCached(inner Store, redis *platformredis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, redis: redis, ttl: ttl}
}

func (s *CachedStore) List(ctx context.Context) ([]Category, error) {
	if s.redis == nil {
		return s.inner.List(ctx)
	}

	if raw, err := s.redis.Get(ctx, cacheKeyAll).Bytes(); err == nil {
		var cached []Category
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(categories); err == nil {
		// Cache failures are not load-bearing; the store already answered.
		_ = s.redis.Set(ctx, cacheKeyAll, raw, s.ttl).Err()
	}
	return categories, nil
}

func (s *CachedStore) Get(ctx context.Context, id int64) (*Category, error) {
	if s.redis == nil {
		return s.inner.Get(ctx, id)
	}

	key := fmt.Sprintf("%s%d", cacheKeyPrefix, id)
	if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		var cached Category
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	c, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(c); err == nil {
		_ = s.redis.Set(ctx, key, raw, s.ttl).Err()
	}
	return c, nil
}
