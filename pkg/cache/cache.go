// Package cache wraps Redis as a JSON read-through cache. A nil-client
// Cache is valid and treats every lookup as a miss, so the service keeps
// working when Redis is down or not configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/savannah/config"
)

// Cache stores JSON-encoded values in Redis with a TTL.
type Cache struct {
	client *redis.Client
}

// Connect builds a Cache and verifies the connection with a ping.
func Connect(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Cache{client: client}, nil
}

// Disabled returns a Cache where every read misses and writes no-op.
func Disabled() *Cache {
	return &Cache{}
}

// Client exposes the underlying Redis client, nil when disabled. The queue
// Redis driver shares this connection.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Get unmarshals the value under key into dest. Returns true on a hit,
// false on miss or any error.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
