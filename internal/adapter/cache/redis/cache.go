package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"authorstore/internal/core/port"
)

type redisRepository struct {
	client *goredis.Client
	prefix string
}

// NewRedisRepository connects to url (redis://...) and namespaces every key
// with prefix.
func NewRedisRepository(ctx context.Context, url, prefix string) (port.CacheRepository, error) {
	opts, err := goredis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &redisRepository{client: client, prefix: prefix}, nil
}

func (c *redisRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *redisRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()

	if errors.Is(err, goredis.Nil) {
		return nil, port.ErrCacheMiss
	}

	return value, err
}

func (c *redisRepository) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *redisRepository) Close() error {
	return c.client.Close()
}
