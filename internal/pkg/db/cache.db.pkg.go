package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gorm/caches/v4"
	_redis "github.com/redis/go-redis/v9"
)

const defaultCacheTime = 5 * time.Minute

func newCacher(cfg *Config) caches.Cacher {
	if cfg.Rds != nil {
		ttl := cfg.CacheTime
		if ttl <= 0 {
			ttl = defaultCacheTime
		}
		return &redisCacher{rds: cfg.Rds, cacheTime: ttl}
	}
	return &memoryCacher{}
}

// rawClient yields the live go-redis client; the redis wrapper swaps it on
// reconnect and closes the old one.
type rawClient interface {
	Raw() *_redis.Client
}

type redisCacher struct {
	rds       rawClient
	cacheTime time.Duration
}

func (c *redisCacher) Get(ctx context.Context, key string, q *caches.Query[any]) (*caches.Query[any], error) {
	res, err := c.rds.Raw().Get(ctx, key).Result()
	if errors.Is(err, _redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := q.Unmarshal([]byte(res)); err != nil {
		return nil, err
	}
	return q, nil
}

func (c *redisCacher) Store(ctx context.Context, key string, val *caches.Query[any]) error {
	res, err := val.Marshal()
	if err != nil {
		return err
	}
	return c.rds.Raw().Set(ctx, key, res, c.cacheTime).Err()
}

func (c *redisCacher) Invalidate(ctx context.Context) error {
	var (
		cursor uint64
		keys   []string
	)
	rdb := c.rds.Raw()
	for {
		k, next, err := rdb.Scan(ctx, cursor, fmt.Sprintf("%s*", caches.IdentifierPrefix), 0).Result()
		if err != nil {
			return err
		}
		keys = append(keys, k...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) > 0 {
		return rdb.Del(ctx, keys...).Err()
	}
	return nil
}

type memoryCacher struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func (c *memoryCacher) Get(_ context.Context, key string, q *caches.Query[any]) (*caches.Query[any], error) {
	c.mu.RLock()
	val, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if err := q.Unmarshal(val); err != nil {
		return nil, err
	}
	return q, nil
}

func (c *memoryCacher) Store(_ context.Context, key string, val *caches.Query[any]) error {
	res, err := val.Marshal()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string][]byte)
	}
	c.store[key] = res
	return nil
}

func (c *memoryCacher) Invalidate(context.Context) error {
	c.mu.Lock()
	c.store = nil
	c.mu.Unlock()
	return nil
}
