package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotConnected = errors.New("rabbitmq: not connected")

// ChannelManager lazily opens a channel on the shared connection and opens a
// new one whenever the previous channel was closed.
type ChannelManager struct {
	ctx  context.Context
	conn *ConnectionManager
	mu   sync.Mutex
	ch   *amqp.Channel
}

func NewChannelManager(ctx context.Context, conn *ConnectionManager) *ChannelManager {
	return &ChannelManager{ctx: ctx, conn: conn}
}

func (m *ChannelManager) GetChannel() (*amqp.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ctx.Err(); err != nil {
		return nil, err
	}
	if m.ch != nil && !m.ch.IsClosed() {
		return m.ch, nil
	}

	conn := m.conn.GetConnection()
	if conn == nil || conn.IsClosed() {
		return nil, ErrNotConnected
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	m.ch = ch
	return ch, nil
}

func (m *ChannelManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ch == nil || m.ch.IsClosed() {
		m.ch = nil
		return nil
	}
	err := m.ch.Close()
	m.ch = nil
	return err
}
