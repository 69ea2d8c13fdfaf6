package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis under a key namespace.
type RedisCache struct {
	client *redis.Client
	ns     string
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db)
// and verifies the connection. Transient dial failures are retried.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	if err := Ping(ctx, c); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RedisCache{client: c, ns: "sliced:cache"}, nil
}

// Ping verifies a Redis connection, retrying network errors with
// DefaultBackoff.
func Ping(ctx context.Context, c *redis.Client) error {
	err := DefaultBackoff.Retry(ctx, func() error {
		err := c.Ping(ctx).Err()
		var netErr net.Error
		if errors.As(err, &netErr) {
			return Transient(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	return nil
}

func (c *RedisCache) key(k string) string { return c.ns + ":" + k }

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in Redis with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
