package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/obs"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/pkg/idx"
)

// Dispatcher is the in-process Emitter: events go onto a bounded queue and a
// background worker records them in the notifications table where the
// delivery system (e-mail, in-app) picks them up. When the queue is full the
// event is dropped and counted rather than blocking the workflow call.
type Dispatcher struct {
	Store  store.Store
	Logger *slog.Logger

	queue  chan domain.NotificationEvent
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDispatcher creates a dispatcher with the given queue capacity. A zero
// or negative capacity defaults to 256.
func NewDispatcher(st store.Store, logger *slog.Logger, capacity int) *Dispatcher {
	if capacity <= 0 {
		capacity = 256
	}

	return &Dispatcher{
		Store:  st,
		Logger: logger,
		queue:  make(chan domain.NotificationEvent, capacity),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to drain and shut down.
func (d *Dispatcher) Start() {
	go d.run()
	d.Logger.Info("notification dispatcher started", "queue_capacity", cap(d.queue))
}

// Stop shuts the worker down after draining whatever is already queued.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	<-d.doneCh
	d.Logger.Info("notification dispatcher stopped")
}

// Emit enqueues the event and returns immediately. The passed context is
// only used for logging; recording happens on the worker's own context so
// a cancelled request cannot lose an already-accepted event.
func (d *Dispatcher) Emit(ctx context.Context, event domain.NotificationEvent) {
	if event.ID == "" {
		event.ID = idx.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case d.queue <- event:
		obs.NotificationEmitted(string(event.Type))
	default:
		obs.NotificationDropped()
		d.Logger.Warn("notification queue full, dropping event",
			slog.String("rfi_id", event.RFIID),
			slog.String("type", string(event.Type)),
		)
	}
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	for {
		select {
		case event := <-d.queue:
			d.record(event)
		case <-d.stopCh:
			// Drain what's already queued before exiting.
			for {
				select {
				case event := <-d.queue:
					d.record(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) record(event domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.Store.Notifications().CreateNotification(ctx, event); err != nil {
		// Out-of-band failure: logged, never surfaced to the caller that
		// triggered the event.
		d.Logger.Error("failed to record notification event",
			slog.String("rfi_id", event.RFIID),
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
		return
	}

	d.Logger.Debug("notification event recorded",
		slog.String("rfi_id", event.RFIID),
		slog.String("type", string(event.Type)),
		slog.String("performed_by_type", string(event.PerformedByType)),
	)
}
