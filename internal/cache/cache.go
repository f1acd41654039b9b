// Package cache is a read-through JSON cache over redis for catalog reads.
// A nil *Cache disables caching everywhere it is injected.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// New connects to redis at addr. An empty addr returns nil, which every
// method treats as "cache disabled".
func New(addr string, ttl time.Duration, logger *log.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

// Get loads the cached record for key into v, reporting whether it was hit.
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Printf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Printf("cache decode %s: %v", key, err)
		return false
	}
	return true
}

// Set stores v under key for the configured TTL. Failures are logged only;
// the database remains the source of truth.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Printf("cache encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Printf("cache set %s: %v", key, err)
	}
}

// Invalidate drops the given keys after a write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Printf("cache del: %v", err)
	}
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
