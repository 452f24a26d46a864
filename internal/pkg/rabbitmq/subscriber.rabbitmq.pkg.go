package rabbitmq

import (
	"context"
	"fmt"
	"readafrik-checkout/internal/pkg/logger"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. Returning an error schedules a
// retry; after MaxRetryAttempts the message goes to the dead-letter queue.
type MessageHandler func(ctx context.Context, msg *amqp.Delivery) error

type RetryStrategy string

const (
	FixedRetry       RetryStrategy = "fixed"
	ExponentialRetry RetryStrategy = "exponential"
	LinearRetry      RetryStrategy = "linear"
)

type SubscribeOptions struct {
	QueueOpts        *QueueConfig
	QueueName        string
	ConsumerName     string
	WorkerCount      int
	PrefetchCount    int
	HandlerTimeout   time.Duration
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryStrategy    RetryStrategy
	BaseRetryDelay   time.Duration
	MaxRetryDelay    time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:        queueName,
		ConsumerName:     queueName,
		WorkerCount:      3,
		PrefetchCount:    10,
		HandlerTimeout:   2 * time.Minute,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   queueName + ".dead",
		RetryStrategy:    ExponentialRetry,
		BaseRetryDelay:   5 * time.Second,
		MaxRetryDelay:    10 * time.Minute,
	}
}

type Subscriber struct {
	connManager *ConnectionManager
	channels    []*ChannelManager
	handler     MessageHandler
	opts        *SubscribeOptions
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   atomic.Bool
	pool        *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	// one slot per consumer loop plus PrefetchCount in-flight messages each
	size := opts.WorkerCount * (opts.PrefetchCount + 1)
	pool, err := ants.NewPool(size, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		Nonblocking:    false,
		PanicHandler: func(i any) {
			logger.Error.Printf("Subscriber %s worker panic: %v", opts.QueueName, i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create subscriber pool: %w", err)
	}

	sub := &Subscriber{
		connManager: connManager,
		handler:     handler,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		channels:    make([]*ChannelManager, opts.WorkerCount),
		pool:        pool,
	}
	for i := range sub.channels {
		sub.channels[i] = NewChannelManager(ctx, connManager)
	}

	return sub, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber is already running")
	}

	for i := 0; i < s.opts.WorkerCount; i++ {
		workerID := i
		s.wg.Add(1)
		if err := s.pool.Submit(func() { s.runWorker(workerID) }); err != nil {
			s.wg.Done()
			return fmt.Errorf("failed to start worker %d: %w", workerID, err)
		}
	}

	logger.Info.Printf("Subscriber %s started with %d workers", s.opts.QueueName, s.opts.WorkerCount)
	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	defer s.wg.Done()

	backoff := &exponentialBackoff{min: time.Second, max: 30 * time.Second, factor: 2}

	for s.isRunning.Load() && s.ctx.Err() == nil {
		if err := s.consume(workerID); err != nil {
			logger.Warning.Printf("Worker %d on %s: %v", workerID, s.opts.QueueName, err)
			if !backoff.sleep(s.ctx) {
				return
			}
			continue
		}
		backoff.reset()
	}
}

func (s *Subscriber) consume(workerID int) error {
	ch, err := s.channels[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	qc := s.opts.QueueOpts
	if qc == nil {
		qc = DefaultQueueConfig()
	}
	q, err := ch.QueueDeclare(s.opts.QueueName, qc.Durable, qc.AutoDelete, qc.Exclusive, qc.NoWait, qc.Args)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	consumer := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(s.ctx, q.Name, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for msg := range msgs {
		delivery := msg
		inflight.Add(1)
		err := s.pool.Submit(func() {
			defer inflight.Done()
			s.process(workerID, &delivery)
		})
		if err != nil {
			inflight.Done()
			logger.Error.Printf("Worker %d failed to submit message: %v", workerID, err)
			_ = delivery.Nack(false, true)
		}
	}

	if s.ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("delivery channel closed")
}

func (s *Subscriber) process(workerID int, msg *amqp.Delivery) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.HandlerTimeout)
	defer cancel()

	err := s.handler(ctx, msg)
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			logger.Error.Printf("Worker %d failed to ack %s: %v", workerID, msg.MessageId, ackErr)
		}
		return
	}

	attempt := retryCount(msg.Headers) + 1
	if attempt > s.opts.MaxRetryAttempts {
		s.deadLetter(workerID, msg, err)
		return
	}

	logger.Warning.Printf("Message %s failed (attempt %d/%d): %v", msg.MessageId, attempt, s.opts.MaxRetryAttempts, err)
	s.retryLater(workerID, msg, attempt)
}

func (s *Subscriber) retryLater(workerID int, msg *amqp.Delivery, attempt int) {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[headerRetryCount] = int32(attempt)
	publishing := republishing(msg, headers)

	if err := msg.Ack(false); err != nil {
		logger.Error.Printf("Worker %d failed to ack before retry: %v", workerID, err)
		return
	}

	delay := s.retryDelay(attempt)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			logger.Warning.Printf("Dropping scheduled retry of %s on shutdown", msg.MessageId)
			return
		}

		ch, err := s.channels[workerID].GetChannel()
		if err != nil {
			logger.Error.Printf("Failed to get channel for retry: %v", err)
			return
		}
		if err := ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, publishing); err != nil {
			logger.Error.Printf("Failed to republish %s: %v", msg.MessageId, err)
		}
	}()
}

func (s *Subscriber) deadLetter(workerID int, msg *amqp.Delivery, cause error) {
	if !s.opts.EnableDeadLetter {
		logger.Error.Printf("Message %s rejected after %d attempts: %v", msg.MessageId, s.opts.MaxRetryAttempts, cause)
		_ = msg.Reject(false)
		return
	}

	ch, err := s.channels[workerID].GetChannel()
	if err == nil {
		_, err = ch.QueueDeclare(s.opts.DeadLetterName, true, false, false, false, nil)
	}
	if err == nil {
		headers := amqp.Table{}
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers[headerDeathCause] = cause.Error()
		headers[headerDeathTime] = time.Now().UTC().Format(time.RFC3339)
		headers[headerDeathQueue] = s.opts.QueueName
		err = ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, republishing(msg, headers))
	}
	if err != nil {
		logger.Error.Printf("Failed to dead-letter %s, requeueing: %v", msg.MessageId, err)
		_ = msg.Nack(false, true)
		return
	}

	logger.Error.Printf("Message %s moved to %s: %v", msg.MessageId, s.opts.DeadLetterName, cause)
	_ = msg.Ack(false)
}

func (s *Subscriber) retryDelay(attempt int) time.Duration {
	var delay time.Duration
	switch s.opts.RetryStrategy {
	case FixedRetry:
		delay = s.opts.BaseRetryDelay
	case LinearRetry:
		delay = s.opts.BaseRetryDelay * time.Duration(attempt)
	default:
		delay = s.opts.BaseRetryDelay
		for i := 1; i < attempt && delay < s.opts.MaxRetryDelay; i++ {
			delay *= 2
		}
	}

	return min(delay, s.opts.MaxRetryDelay)
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Minute):
		return fmt.Errorf("timeout waiting for %s workers to stop", s.opts.QueueName)
	}

	for i, ch := range s.channels {
		if err := ch.Close(); err != nil {
			logger.Error.Printf("Error closing channel for worker %d: %v", i, err)
		}
	}
	s.pool.Release()
	return nil
}

func (s *Subscriber) IsHealthy() bool {
	return s.isRunning.Load() && !s.connManager.IsClosed()
}

type exponentialBackoff struct {
	min    time.Duration
	max    time.Duration
	factor float64
	curr   time.Duration
}

// sleep waits for the next backoff step and reports false if ctx ended first.
func (b *exponentialBackoff) sleep(ctx context.Context) bool {
	if b.curr == 0 {
		b.curr = b.min
	} else {
		b.curr = min(time.Duration(float64(b.curr)*b.factor), b.max)
	}

	t := time.NewTimer(b.curr)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *exponentialBackoff) reset() {
	b.curr = 0
}
