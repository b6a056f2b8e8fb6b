// Package cache keeps the donor list in Redis so repeated searches do not hit
// the API on every page view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
)

const (
	namespace = "bloodlink"
	donorsKey = namespace + ":donors"
)

type DonorCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New returns nil when no Redis address is configured.
func New(cfg config.Redis, ttl time.Duration) *DonorCache {
	if cfg.Addr == "" {
		return nil
	}
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), ttl)
}

func NewWithClient(client redis.UniversalClient, ttl time.Duration) *DonorCache {
	return &DonorCache{client: client, ttl: ttl}
}

func (c *DonorCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *DonorCache) Close() error {
	return c.client.Close()
}

// Invalidate drops the cached list, e.g. after a moderation changed who is listed.
func (c *DonorCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, donorsKey).Err()
}

// Wrap returns a loader that serves from Redis and falls back to next on a
// miss. Redis errors are logged and never fail the load. A nil cache returns
// next unchanged.
func (c *DonorCache) Wrap(next donor.Loader) donor.Loader {
	if c == nil {
		return next
	}
	return cachedLoader{cache: c, next: next}
}

type cachedLoader struct {
	cache *DonorCache
	next  donor.Loader
}

func (l cachedLoader) Donors(ctx context.Context) ([]domain.Donor, error) {
	if donors, ok := l.cache.get(ctx); ok {
		metrics.DonorCache.WithLabelValues("hit").Inc()
		return donors, nil
	}
	metrics.DonorCache.WithLabelValues("miss").Inc()

	donors, err := l.next.Donors(ctx)
	if err != nil {
		return nil, err
	}
	l.cache.set(ctx, donors)
	return donors, nil
}

func (c *DonorCache) get(ctx context.Context) ([]domain.Donor, bool) {
	raw, err := c.client.Get(ctx, donorsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("donor cache read failed", "error", err)
		return nil, false
	}

	var donors []domain.Donor
	if err := json.Unmarshal(raw, &donors); err != nil {
		logger.Log.Warn("donor cache entry is corrupt", "error", err)
		return nil, false
	}
	return donors, true
}

func (c *DonorCache) set(ctx context.Context, donors []domain.Donor) {
	raw, err := json.Marshal(donors)
	if err != nil {
		logger.Log.Error("failed to encode donors for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, donorsKey, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("donor cache write failed", "error", err)
	}
}
