package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is a thin versioned cache on top of Redis. List endpoints key their
// entries on a per-user version counter; bumping the version invalidates
// every cached page at once. When Redis is unreachable the cache degrades
// to a no-op and the application keeps serving from Postgres.
type Cache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCache(addr string, log zerolog.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Warn().Err(err).Msg("Redis not available. Running without cache.")
		return &Cache{client: nil, log: log}
	}

	log.Info().Msg("Redis connected successfully.")
	return &Cache{client: client, log: log}
}

// NewNoop returns a cache that stores nothing, for environments without Redis.
func NewNoop() *Cache {
	return &Cache{}
}

func (c *Cache) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

// Get unmarshals the cached value into dest. Returns false on miss or when
// the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// GetVersion returns the current version counter for a key, 0 when unset.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c.client == nil {
		return 0
	}
	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps the version counter, invalidating dependent keys.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache version bump failed")
	}
}
