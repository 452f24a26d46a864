package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IPublisher interface {
	Publish(ctx context.Context, queue string, payload any, headers *amqp.Table) (string, error)
}

type Publisher struct {
	channel  *ChannelManager
	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(ctx context.Context, conn *ConnectionManager) *Publisher {
	return &Publisher{
		channel:  NewChannelManager(ctx, conn),
		declared: make(map[string]bool),
	}
}

// Publish sends payload as a persistent message to queue through the default
// exchange and returns the message id.
func (p *Publisher) Publish(ctx context.Context, queue string, payload any, headers *amqp.Table) (string, error) {
	msg, err := NewMessage(payload, headers)
	if err != nil {
		return "", fmt.Errorf("failed to build message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel.GetChannel()
	if err != nil {
		return "", err
	}

	if !p.declared[queue] {
		qc := DefaultQueueConfig()
		if _, err := ch.QueueDeclare(queue, qc.Durable, qc.AutoDelete, qc.Exclusive, qc.NoWait, qc.Args); err != nil {
			return "", fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, *msg.GeneratePayload()); err != nil {
		// the channel may be dead; redeclare on the next one
		delete(p.declared, queue)
		return "", fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return msg.ID, nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}
