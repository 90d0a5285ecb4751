package geoip

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/vortex-fintech/contactform/logger"
)

const (
	keySuffix       = "geoip:country:"
	defaultCacheTTL = 24 * time.Hour
)

// Cache stores detected codes per IP. A miss is ("", false, nil).
type Cache interface {
	Get(ctx context.Context, ip string) (string, bool, error)
	Set(ctx context.Context, ip, code string) error
}

type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache stores codes under prefix+"geoip:country:"+ip. prefix is
// usually cache.Config.KeyPrefix().
func NewRedisCache(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{rdb: rdb, prefix: prefix + keySuffix, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, ip string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, c.prefix+ip).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, ip, code string) error {
	return c.rdb.Set(ctx, c.prefix+ip, code, c.ttl).Err()
}

// CachedDetector puts a Cache in front of another Detector and collapses
// concurrent lookups of the same IP into one call. Cache errors are logged
// and otherwise ignored.
type CachedDetector struct {
	next  Detector
	cache Cache
	log   logger.LoggerInterface
	group singleflight.Group
}

func NewCachedDetector(next Detector, cache Cache, log logger.LoggerInterface) *CachedDetector {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedDetector{next: next, cache: cache, log: log}
}

func (d *CachedDetector) Detect(ctx context.Context, ip string) (string, error) {
	if ip == "" {
		return d.next.Detect(ctx, ip)
	}

	code, ok, err := d.cache.Get(ctx, ip)
	switch {
	case err != nil:
		d.log.Warnw("geoip cache read failed", "error", err)
	case ok:
		return code, nil
	}

	v, err, _ := d.group.Do(ip, func() (any, error) {
		code, err := d.next.Detect(ctx, ip)
		if err != nil {
			return "", err
		}
		if err := d.cache.Set(ctx, ip, code); err != nil {
			d.log.Warnw("geoip cache write failed", "error", err)
		}
		return code, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
