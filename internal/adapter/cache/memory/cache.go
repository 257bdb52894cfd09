package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"authorstore/internal/core/port"
)

type memoryRepository struct {
	cache *cache.Cache
}

// NewMemoryRepository keeps entries in process. A ttl of zero falls back to
// defaultTTL.
func NewMemoryRepository(defaultTTL time.Duration) port.CacheRepository {
	return &memoryRepository{
		cache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.cache.Set(key, stored, ttl)
	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *memoryRepository) Close() error {
	c.cache.Flush()
	return nil
}
