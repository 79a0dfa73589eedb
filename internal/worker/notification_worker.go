package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpcenter-api/internal/events"
)

// Deliverer sends one notification event to its recipients.
type Deliverer interface {
	Deliver(ctx context.Context, event events.Event) error
}

// NotificationWorker moves notification delivery off the request path. Ticket
// events are enqueued from the dispatcher's synchronous handlers and drained
// by a single background goroutine, so a slow webhook never delays an API
// response. The queue is bounded; when it is full the event is dropped with a
// warning rather than blocking a write.
type NotificationWorker struct {
	deliverer Deliverer
	logger    *zap.Logger
	queue     chan events.Event
	done      chan struct{}
}

// NewNotificationWorker creates a worker with a bounded event queue.
func NewNotificationWorker(deliverer Deliverer, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		deliverer: deliverer,
		logger:    logger,
		queue:     make(chan events.Event, 64),
		done:      make(chan struct{}),
	}
}

// Start subscribes the worker to ticket events and launches the drain loop.
func (w *NotificationWorker) Start(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, w.enqueue)
	dispatcher.Subscribe(events.EventTicketStatusChanged, w.enqueue)

	go w.run()
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (w *NotificationWorker) Stop() {
	close(w.queue)
	<-w.done
}

func (w *NotificationWorker) enqueue(ctx context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		if err := w.deliverer.Deliver(context.Background(), event); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
}
