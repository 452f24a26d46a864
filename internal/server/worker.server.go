package serverApp

import (
	"context"
	"fmt"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/rabbitmq"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// NewNotifier returns the notifier used by the services. With queueing on,
// services publish to RabbitMQ and InitWorker delivers through backend.
func NewNotifier(ctx context.Context, cfg *mailer.Config, queued bool, rb *rabbitmq.ConnectionManager) (notifier mailer.Notifier, backend mailer.Notifier, err error) {
	backend, err = mailer.NewBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	if !queued {
		return backend, backend, nil
	}
	if rb == nil {
		logger.Warning.Println("EMAIL_QUEUE_ENABLED is set but RabbitMQ is disabled, sending emails inline")
		return backend, backend, nil
	}

	return mailer.NewQueue(rabbitmq.NewPublisher(ctx, rb), mailer.OutboundQueue), backend, nil
}

// InitWorker starts the background workers on an ants pool. They stop when
// ctx is canceled; wg is released once they have drained.
func InitWorker(ctx context.Context, wg *sync.WaitGroup, rb *rabbitmq.ConnectionManager, backend mailer.Notifier) error {
	if rb == nil {
		return nil
	}

	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(1, ants.WithOptions(poolOpts))
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	emailWorker, err := rabbitmq.NewSubscriber(ctx, rb, mailer.Deliverer(backend), rabbitmq.DefaultSubscribeOptions(mailer.OutboundQueue))
	if err != nil {
		pool.Release()
		return fmt.Errorf("failed to create email worker: %w", err)
	}

	wg.Add(1)
	err = pool.Submit(func() {
		defer wg.Done()
		defer pool.Release()

		if err := emailWorker.Start(); err != nil {
			logger.Error.Printf("Failed to initialize email worker: %v\n", err)
			return
		}
		<-ctx.Done()
		if err := emailWorker.Stop(); err != nil {
			logger.Error.Printf("Failed to stop email worker: %v\n", err)
		}
	})
	if err != nil {
		wg.Done()
		pool.Release()
		return fmt.Errorf("failed to submit task to pool: %w", err)
	}

	return nil
}
