package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gorm/caches/v4"
	_redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swappableClient struct {
	mu     sync.Mutex
	client *_redis.Client
}

func (s *swappableClient) Raw() *_redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

func (s *swappableClient) swap(c *_redis.Client) {
	s.mu.Lock()
	old := s.client
	s.client = c
	s.mu.Unlock()
	_ = old.Close()
}

func unreachableClient() *_redis.Client {
	return _redis.NewClient(&_redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCacherFollowsReconnect(t *testing.T) {
	t.Parallel()

	src := &swappableClient{client: unreachableClient()}
	cacher := &redisCacher{rds: src, cacheTime: time.Minute}
	ctx := context.Background()

	replacement := unreachableClient()
	t.Cleanup(func() { _ = replacement.Close() })
	src.swap(replacement)

	_, err := cacher.Get(ctx, "gorm-caches::orders", &caches.Query[any]{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, _redis.ErrClosed), "cacher must not keep the closed client: %v", err)

	err = cacher.Invalidate(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, _redis.ErrClosed))
}

func TestMemoryCacherMiss(t *testing.T) {
	t.Parallel()

	cacher := &memoryCacher{}
	got, err := cacher.Get(context.Background(), "missing", &caches.Query[any]{})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cacher.Invalidate(context.Background()))
}
