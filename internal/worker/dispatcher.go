package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/paywebhook/internal/adapter/mailer"
	"github.com/polkiloo/paywebhook/internal/domain/model"
	"github.com/polkiloo/paywebhook/internal/metrics"
)

const (
	defaultEnqueueWait = 100 * time.Millisecond
	maxAttempts        = 3
	baseBackoff        = 200 * time.Millisecond
	maxBackoff         = time.Minute
)

// Sink delivers notifications to one channel (email, broker, in-app).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n model.Notification) error
}

// NotificationDispatcher fans notifications out to sinks on a bounded worker pool.
type NotificationDispatcher struct {
	sinks       []Sink
	workers     int
	timeout     time.Duration
	enqueueWait time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time

	jobs   chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationDispatcher constructs dispatcher worker pool.
func NewNotificationDispatcher(sinks []Sink, queueSize, workers int, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationDispatcher{
		sinks:       sinks,
		workers:     workers,
		timeout:     timeout,
		enqueueWait: defaultEnqueueWait,
		logger:      logger,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
		jobs:        make(chan model.Notification, queueSize),
	}
}

// Start launches background delivery.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop cancels workers and waits for in-flight deliveries to return.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
	if pending := len(d.jobs); pending > 0 {
		d.logger.Warn("notifications dropped on shutdown", slog.Int("pending", pending))
	}
}

// NotifyOrderConfirmed queues a confirmation for an accepted payment.
func (d *NotificationDispatcher) NotifyOrderConfirmed(order model.Order) {
	d.Enqueue(d.build(model.NotificationOrderConfirmed, order))
}

// NotifyPaymentFailed queues a failure notice with the translated reason.
func (d *NotificationDispatcher) NotifyPaymentFailed(order model.Order, reason string) {
	n := d.build(model.NotificationPaymentFailed, order)
	n.Reason = reason
	d.Enqueue(n)
}

// NotifyRefundIssued queues a refund notice for amount in minor units.
func (d *NotificationDispatcher) NotifyRefundIssued(order model.Order, amount int64) {
	n := d.build(model.NotificationRefundIssued, order)
	n.Amount = amount
	d.Enqueue(n)
}

// Enqueue never blocks longer than the enqueue wait; a full queue drops the notification.
func (d *NotificationDispatcher) Enqueue(n model.Notification) {
	timer := time.NewTimer(d.enqueueWait)
	defer timer.Stop()

	select {
	case d.jobs <- n:
		d.metrics.SetQueueLength(len(d.jobs))
	case <-timer.C:
		d.metrics.ObserveNotification("queue", string(n.Kind), "dropped")
		d.logger.Error("notification queue full, dropping",
			slog.String("kind", string(n.Kind)),
			slog.String("order_id", n.OrderID))
	}
}

func (d *NotificationDispatcher) build(kind model.NotificationKind, order model.Order) model.Notification {
	return model.Notification{
		ID:            uuid.NewString(),
		Kind:          kind,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		CreatedAt:     d.now(),
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.jobs:
			d.metrics.SetQueueLength(len(d.jobs))
			d.deliver(ctx, n)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, n model.Notification) {
	for _, sink := range d.sinks {
		if err := d.deliverWithRetry(ctx, sink, n); err != nil {
			d.metrics.ObserveNotification(sink.Name(), string(n.Kind), "failed")
			d.logger.Error("notification delivery failed",
				slog.String("sink", sink.Name()),
				slog.String("kind", string(n.Kind)),
				slog.String("order_id", n.OrderID),
				slog.String("error", err.Error()))
			continue
		}
		d.metrics.ObserveNotification(sink.Name(), string(n.Kind), "delivered")
	}
}

func (d *NotificationDispatcher) deliverWithRetry(ctx context.Context, sink Sink, n model.Notification) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = d.deliverOnce(ctx, sink, n)
		if err == nil {
			return nil
		}

		wait := backoff(attempt)
		var limited mailer.TooManyRequestsError
		if errors.As(err, &limited) {
			d.logger.Warn("notification sink rate limited",
				slog.String("sink", sink.Name()),
				slog.Duration("retry_after", limited.RetryAfter))
			wait = min(limited.RetryAfter, maxBackoff)
		}
		if attempt == maxAttempts-1 {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}

func (d *NotificationDispatcher) deliverOnce(ctx context.Context, sink Sink, n model.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("sink panicked")
			d.logger.Error("notification sink panic", slog.String("sink", sink.Name()), slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return sink.Deliver(ctx, n)
}

func backoff(attempt int) time.Duration {
	if attempt >= 16 {
		return maxBackoff
	}
	wait := baseBackoff << attempt
	if wait > maxBackoff || wait <= 0 {
		return maxBackoff
	}
	return wait
}
