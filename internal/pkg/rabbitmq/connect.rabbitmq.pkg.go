package rabbitmq

import (
	"context"
	"fmt"
	"net/url"
	"readafrik-checkout/internal/pkg/logger"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Config struct {
	Username string
	Password string
	Host     string
	Port     int
	VHost    string
	URI      string
}

// DialURL returns URI when set, otherwise builds one from the parts.
func (c *Config) DialURL() string {
	if c.URI != "" {
		return c.URI
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.VHost,
	}
	return u.String()
}

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

// ConnectionManager owns one AMQP connection and redials it when the broker
// closes it.
type ConnectionManager struct {
	conn          *amqp.Connection
	mu            sync.Mutex
	url           string
	isConnected   bool
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	cm := &ConnectionManager{
		url:           config.DialURL(),
		retryInterval: 2 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := cm.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return cm, nil
}

func (cm *ConnectionManager) connect() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.isConnected {
		return nil
	}
	if err := cm.ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	cm.conn = conn
	cm.isConnected = true

	go cm.monitor(conn.NotifyClose(make(chan *amqp.Error, 1)))

	return nil
}

func (cm *ConnectionManager) monitor(closed <-chan *amqp.Error) {
	select {
	case <-cm.ctx.Done():
		return
	case err, ok := <-closed:
		if !ok || err == nil {
			// graceful close
			return
		}

		cm.mu.Lock()
		cm.isConnected = false
		cm.mu.Unlock()
		logger.Warning.Printf("RabbitMQ connection lost: %v. Attempting to reconnect...", err)
	}

	for {
		select {
		case <-cm.ctx.Done():
			return
		case <-time.After(cm.retryInterval):
		}

		if err := cm.connect(); err != nil {
			logger.Warning.Printf("Failed to reconnect: %v. Retrying in %v...", err, cm.retryInterval)
			continue
		}

		logger.Info.Println("Reconnected to RabbitMQ")
		return
	}
}

func (cm *ConnectionManager) GetConnection() *amqp.Connection {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil || !cm.isConnected {
		return nil
	}
	return cm.conn
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.isConnected = false
	if cm.conn == nil {
		return nil
	}
	err := cm.conn.Close()
	cm.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (cm *ConnectionManager) IsClosed() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ctx.Err() != nil || !cm.isConnected
}
