package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"readafrik-checkout/internal/pkg/logger"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

func Setup(ctx context.Context, config *Config) (*Client, error) {
	clientCtx, cancel := context.WithCancel(ctx)

	r := &Client{
		cancel: cancel,
		ctx:    clientCtx,
		config: config,
	}

	if err := r.connect(); err != nil {
		cancel()
		logger.Error.Println(err)
		return nil, err
	}

	go r.reconnectHandler()

	return r, nil
}

// Raw exposes the underlying go-redis client, used by the query cache.
func (r *Client) Raw() *_redis.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

func (r *Client) connect() error {
	client := _redis.NewClient(&_redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Username: r.config.Username,
		Password: r.config.Password,
		DB:       r.config.DB,
		PoolSize: r.config.PoolSize,
	})

	if err := client.Ping(r.ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	r.mu.Lock()
	old := r.client
	r.client = client
	r.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (r *Client) reconnectHandler() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			logger.Info.Println("Redis reconnect handler shutting down...")
			return
		case <-ticker.C:
			err := r.Raw().Ping(r.ctx).Err()
			if err == nil {
				continue
			}
			logger.Warning.Printf("Redis connection lost: %v. Attempting to reconnect...", err)

			for attempt := 1; ; attempt++ {
				if r.ctx.Err() != nil {
					return
				}
				if err := r.connect(); err != nil {
					logger.Warning.Printf("Redis reconnect attempt #%d failed: %v", attempt, err)
					time.Sleep(time.Duration(min(attempt, 30)) * time.Second)
					continue
				}
				logger.Info.Println("Reconnected to redis.")
				break
			}
		}
	}
}

func (r *Client) Close() error {
	r.cancel()
	return r.Raw().Close()
}

func (r *Client) Ping(ctx context.Context) error {
	return r.Raw().Ping(ctx).Err()
}

// Set stores value as JSON. Strings and byte slices are stored as-is.
func (r *Client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if err := r.Raw().Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// SetNX stores value only if key is absent and reports whether it did.
func (r *Client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	data, err := encode(value)
	if err != nil {
		return false, err
	}
	ok, err := r.Raw().SetNX(ctx, key, data, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim key %s: %w", key, err)
	}
	return ok, nil
}

// Get returns "" without error when the key does not exist.
func (r *Client) Get(ctx context.Context, key string) (string, error) {
	result, err := r.Raw().Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, NilType) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) Del(ctx context.Context, key string) error {
	if err := r.Raw().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
