package mailer

import (
	"context"
	"fmt"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

const OutboundQueue = "email.outbound"

// Queue hands messages to RabbitMQ. The email worker consumes them and
// delivers through the configured backend.
type Queue struct {
	publisher rabbitmq.IPublisher
	queue     string
}

func NewQueue(publisher rabbitmq.IPublisher, queue string) *Queue {
	if queue == "" {
		queue = OutboundQueue
	}
	return &Queue{publisher: publisher, queue: queue}
}

func (q *Queue) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	headers := amqp.Table{"kind": "email"}
	if _, err := q.publisher.Publish(ctx, q.queue, msg, &headers); err != nil {
		return fmt.Errorf("mailer: failed to queue email to %s: %w", msg.To, err)
	}
	return nil
}

// Deliverer returns a subscriber handler that decodes queued messages and
// sends them through backend.
func Deliverer(backend Notifier) rabbitmq.MessageHandler {
	return func(ctx context.Context, d *amqp.Delivery) error {
		msg, err := helper.BytesToStruct[Message](d.Body)
		if err != nil {
			// retrying cannot fix a malformed body
			logger.Error.Printf("dropping undecodable email message %s: %v", d.MessageId, err)
			return nil
		}
		return backend.Send(ctx, msg)
	}
}
