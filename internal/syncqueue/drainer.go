package syncqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/invenx-app/invenx-backend/pkg/metrics"
)

const defaultDrainDelay = 2 * time.Second

// Queue is the durable pending-change surface the drainer consumes.
type Queue interface {
	PendingSyncItems(ctx context.Context) []models.PendingSyncItem
	PendingSyncCount(ctx context.Context) int
	ClearPendingSync(ctx context.Context)
}

// Bookkeeper keeps a durable count of completed drains so operators can see
// reconciliation activity across process restarts.
type Bookkeeper interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// DrainerParams configure the reconciliation drainer.
type DrainerParams struct {
	Logger     *logger.Logger
	Queue      Queue
	Notifier   notify.Notifier
	Metrics    *metrics.LedgerMetrics
	Bookkeeper Bookkeeper // Optional; nil skips the durable drain counter.
	DrainDelay time.Duration
}

// Drainer reconciles the pending queue when connectivity returns. The push
// itself is simulated: after a fixed delay the queue is cleared wholesale, as
// if every queued change had been accepted upstream. A drop back offline
// before the delay elapses cancels the drain and keeps the queue intact.
type Drainer struct {
	logg       *logger.Logger
	queue      Queue
	notifier   notify.Notifier
	metrics    *metrics.LedgerMetrics
	bookkeeper Bookkeeper
	delay      time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDrainer builds a reconciliation drainer.
func NewDrainer(params DrainerParams) (*Drainer, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Queue == nil {
		return nil, fmt.Errorf("queue required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	delay := params.DrainDelay
	if delay <= 0 {
		delay = defaultDrainDelay
	}
	return &Drainer{
		logg:       params.Logger,
		queue:      params.Queue,
		notifier:   params.Notifier,
		metrics:    params.Metrics,
		bookkeeper: params.Bookkeeper,
		delay:      delay,
	}, nil
}

// HandleOnline starts a drain if queued changes are waiting. A drain already
// in flight is restarted.
func (d *Drainer) HandleOnline(ctx context.Context) {
	count := d.queue.PendingSyncCount(ctx)
	if count == 0 {
		d.logg.Info(ctx, "back online with an empty queue")
		return
	}

	d.notifier.Publish(ctx, notify.Notification{
		Kind:    enums.NotificationKindInfo,
		Title:   "Back online",
		Message: fmt.Sprintf("Syncing %d pending change(s)...", count),
	})

	d.mu.Lock()
	d.stopLocked()
	drainCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()

	go d.drain(drainCtx, done, count)
}

// HandleOffline cancels any drain still waiting out its delay. Queued items
// stay durable for the next reconnect.
func (d *Drainer) HandleOffline(ctx context.Context) {
	d.mu.Lock()
	canceled := d.stopLocked()
	d.mu.Unlock()
	if canceled {
		d.logg.Warn(ctx, "connectivity lost before drain completed; keeping queue")
	}
}

// Stop cancels any in-flight drain and waits for its goroutine to exit.
func (d *Drainer) Stop() {
	d.mu.Lock()
	done := d.done
	d.stopLocked()
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (d *Drainer) stopLocked() bool {
	if d.cancel == nil {
		return false
	}
	d.cancel()
	d.cancel = nil
	d.done = nil
	return true
}

func (d *Drainer) drain(ctx context.Context, done chan struct{}, count int) {
	defer close(done)
	start := time.Now()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	items := d.queue.PendingSyncItems(ctx)
	d.queue.ClearPendingSync(ctx)
	d.metrics.ObserveDrain(time.Since(start))
	d.metrics.SetQueueDepth(0)

	ctx = d.logg.WithField(ctx, "drained", len(items))
	d.logg.Info(ctx, "pending queue drained")

	if d.bookkeeper != nil {
		if _, err := d.bookkeeper.Incr(ctx, d.bookkeeper.CounterKey("drains")); err != nil {
			d.logg.Error(ctx, "failed to record drain", err)
		}
	}

	d.notifier.Publish(ctx, notify.Notification{
		Kind:    enums.NotificationKindSuccess,
		Title:   "Sync complete",
		Message: fmt.Sprintf("%d change(s) synced successfully.", count),
	})
}
