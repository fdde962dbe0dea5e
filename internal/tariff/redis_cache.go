package tariff

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"deliverytariff/internal/logger"
)

// RedisCache shares resolved tariffs between processes. Redis expiry is set
// to the TTL only to keep the keyspace tidy; freshness is still checked by
// the engine against CreatedAt. Redis errors read as misses.
type RedisCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisCache(rc *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rc: rc, prefix: "tariff:", ttl: ttl, log: logger.L()}
}

func (c *RedisCache) Get(ctx context.Context, k Key) (Entry, bool) {
	b, err := c.rc.Get(ctx, c.prefix+k.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("tariff_cache_redis_get_error", "key", k.String(), "err", err)
		}
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		c.log.Warn("tariff_cache_redis_decode_error", "key", k.String(), "err", err)
		return Entry{}, false
	}
	return e, true
}

func (c *RedisCache) Set(ctx context.Context, k Key, e Entry) {
	b, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("tariff_cache_redis_encode_error", "key", k.String(), "err", err)
		return
	}
	if err := c.rc.Set(ctx, c.prefix+k.String(), b, c.ttl).Err(); err != nil {
		c.log.Warn("tariff_cache_redis_set_error", "key", k.String(), "err", err)
	}
}
