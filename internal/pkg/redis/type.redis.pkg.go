package redis

import (
	"context"
	"sync"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

// NilType is returned by go-redis when a key does not exist.
var NilType = _redis.Nil

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	PoolSize int
}

// IRedis is the subset of the client the repositories depend on.
type IRedis interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type Client struct {
	mu     sync.RWMutex
	client *_redis.Client
	ctx    context.Context
	cancel context.CancelFunc
	config *Config
}
