package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iongraph/iongraph/pkg/httputil"
)

// RedisCache implements Cache on top of a Redis instance, so multiple
// `iongraph serve` replicas can share one layout/artifact cache instead of
// each maintaining its own FileCache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and returns a Cache backed by it.
func NewRedisCache(addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx := context.Background()
	err := httputil.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return &httputil.RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
