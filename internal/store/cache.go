// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"onboarding-workers/internal/common/logger"
	"onboarding-workers/internal/common/metrics"
	"onboarding-workers/internal/matching"
)

// ProfileReader is the source of truth behind ProfileCache.
type ProfileReader interface {
	GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error)
	GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error)
}

// ProfileCache reads single profiles through Redis. Redis errors are logged
// and fall back to the reader; they never fail a lookup.
type ProfileCache struct {
	reader ProfileReader
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileCache(reader ProfileReader, rdb *redis.Client, ttl time.Duration, log logger.Logger) *ProfileCache {
	return &ProfileCache{reader: reader, redis: rdb, ttl: ttl, logger: log}
}

func brandKey(id string) string    { return "profile:brand:" + id }
func providerKey(id string) string { return "profile:provider:" + id }

func (c *ProfileCache) GetBrandProfile(ctx context.Context, id string) (*matching.BrandProfile, error) {
	var p matching.BrandProfile
	if c.lookup(ctx, "brand", brandKey(id), &p) {
		return &p, nil
	}
	fresh, err := c.reader.GetBrandProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, brandKey(id), fresh)
	return fresh, nil
}

func (c *ProfileCache) GetProviderProfile(ctx context.Context, id string) (*matching.ProviderProfile, error) {
	var p matching.ProviderProfile
	if c.lookup(ctx, "provider", providerKey(id), &p) {
		return &p, nil
	}
	fresh, err := c.reader.GetProviderProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, providerKey(id), fresh)
	return fresh, nil
}

// InvalidateBrand drops a cached brand after its profile changes.
func (c *ProfileCache) InvalidateBrand(ctx context.Context, id string) {
	c.drop(ctx, brandKey(id))
}

func (c *ProfileCache) InvalidateProvider(ctx context.Context, id string) {
	c.drop(ctx, providerKey(id))
}

func (c *ProfileCache) lookup(ctx context.Context, kind, key string, dest interface{}) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err})
			metrics.ProfileCacheLookups.WithLabelValues(kind, "error").Inc()
		} else {
			metrics.ProfileCacheLookups.WithLabelValues(kind, "miss").Inc()
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("profile cache entry corrupt", map[string]interface{}{"key": key, "error": err})
		metrics.ProfileCacheLookups.WithLabelValues(kind, "error").Inc()
		return false
	}
	metrics.ProfileCacheLookups.WithLabelValues(kind, "hit").Inc()
	return true
}

func (c *ProfileCache) store(ctx context.Context, key string, v interface{}) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (c *ProfileCache) drop(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("profile cache invalidate failed", map[string]interface{}{"key": key, "error": err})
	}
}
