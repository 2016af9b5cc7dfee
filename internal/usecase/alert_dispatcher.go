package usecase

import (
	"context"
	"sync"
	"time"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/repository"
	applogger "NoChurn/pkg/logger"
)

// AlertDispatcher fans fired alert events out to the configured sinks.
// Streaming consumers (WebSocket) receive events immediately; the broker
// and the CRM webhook are fed in aggregated batches, flushed on a timer or
// when the buffer fills.
type AlertDispatcher struct {
	publisher repository.AlertPublisher
	notifier  repository.Notifier
	broadcast func(*models.AlertEvent)
	logger    *applogger.Logger

	flushInterval time.Duration
	flushCount    int

	mu  sync.Mutex
	buf []*models.AlertEvent

	stopCh    chan struct{}
	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// DispatcherOption configures optional sinks.
type DispatcherOption func(*AlertDispatcher)

// WithPublisher attaches the message broker sink.
func WithPublisher(p repository.AlertPublisher) DispatcherOption {
	return func(d *AlertDispatcher) { d.publisher = p }
}

// WithNotifier attaches the CRM webhook sink.
func WithNotifier(n repository.Notifier) DispatcherOption {
	return func(d *AlertDispatcher) { d.notifier = n }
}

// WithBroadcast attaches an immediate per-event sink (WebSocket hub).
func WithBroadcast(fn func(*models.AlertEvent)) DispatcherOption {
	return func(d *AlertDispatcher) { d.broadcast = fn }
}

// NewAlertDispatcher creates a dispatcher. Call Start before offering
// events and Stop for a final flush on shutdown.
func NewAlertDispatcher(l *applogger.Logger, flushInterval time.Duration, flushCount int, opts ...DispatcherOption) *AlertDispatcher {
	if flushInterval <= 0 {
		flushInterval = 30 * time.Second
	}
	if flushCount <= 0 {
		flushCount = 100
	}
	d := &AlertDispatcher{
		logger:        l,
		flushInterval: flushInterval,
		flushCount:    flushCount,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the background flush loop.
func (d *AlertDispatcher) Start() {
	d.startOnce.Do(func() {
		go d.loop()
	})
}

// Offer queues events for batched delivery and pushes them to the
// streaming sink immediately. Safe for concurrent use.
func (d *AlertDispatcher) Offer(events ...*models.AlertEvent) {
	if len(events) == 0 {
		return
	}

	if d.broadcast != nil {
		for _, e := range events {
			d.broadcast(e)
		}
	}
	if d.publisher == nil && d.notifier == nil {
		return
	}

	d.mu.Lock()
	d.buf = append(d.buf, events...)
	full := len(d.buf) >= d.flushCount
	d.mu.Unlock()

	if full {
		d.flush()
	}
}

// Stop performs a final flush and waits for the loop to exit.
func (d *AlertDispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.stopCh) })
	select {
	case <-d.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AlertDispatcher) loop() {
	defer close(d.doneCh)
	ticker := time.NewTicker(d.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.flush()
		case <-d.stopCh:
			d.flush()
			return
		}
	}
}

func (d *AlertDispatcher) flush() {
	d.mu.Lock()
	batch := d.buf
	d.buf = nil
	d.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if d.publisher != nil {
		if err := d.publisher.PublishBatch(ctx, batch); err != nil {
			d.logger.Warn("alert publish failed",
				applogger.Int("events", len(batch)),
				applogger.Error(err),
			)
		}
	}
	if d.notifier != nil {
		if err := d.notifier.Notify(ctx, batch); err != nil {
			d.logger.Warn("alert notification failed",
				applogger.Int("events", len(batch)),
				applogger.Error(err),
			)
		}
	}
}
