package syncqueue

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

type memoryQueue struct {
	mu    sync.Mutex
	items []models.PendingSyncItem
}

func (m *memoryQueue) PendingSyncItems(context.Context) []models.PendingSyncItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PendingSyncItem(nil), m.items...)
}

func (m *memoryQueue) PendingSyncCount(context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *memoryQueue) ClearPendingSync(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

type safeNotifier struct {
	mu        sync.Mutex
	published []notify.Notification
}

func (s *safeNotifier) Publish(_ context.Context, notification notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, notification)
}

func (s *safeNotifier) kinds() []enums.NotificationKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]enums.NotificationKind, 0, len(s.published))
	for _, n := range s.published {
		out = append(out, n.Kind)
	}
	return out
}

func newTestDrainer(t *testing.T, queue Queue, notifier notify.Notifier, delay time.Duration) *Drainer {
	t.Helper()
	drainer, err := NewDrainer(DrainerParams{
		Logger:     logger.New(logger.Options{Output: io.Discard}),
		Queue:      queue,
		Notifier:   notifier,
		DrainDelay: delay,
	})
	if err != nil {
		t.Fatalf("NewDrainer: %v", err)
	}
	return drainer
}

func queuedItems(n int) []models.PendingSyncItem {
	items := make([]models.PendingSyncItem, n)
	for i := range items {
		items[i] = models.PendingSyncItem{
			Type:      enums.SyncItemTypeProduct,
			Action:    enums.SyncActionUpdate,
			Timestamp: time.Now().UTC(),
		}
	}
	return items
}

func waitForEmptyQueue(t *testing.T, queue *memoryQueue) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if queue.PendingSyncCount(context.Background()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("queue did not drain before deadline")
}

func TestNewDrainerValidatesDependencies(t *testing.T) {
	if _, err := NewDrainer(DrainerParams{}); err == nil {
		t.Fatal("expected error for missing logger")
	}
	if _, err := NewDrainer(DrainerParams{Logger: logger.New(logger.Options{Output: io.Discard})}); err == nil {
		t.Fatal("expected error for missing queue")
	}
}

func TestHandleOnlineDrainsAfterDelay(t *testing.T) {
	queue := &memoryQueue{items: queuedItems(3)}
	notifier := &safeNotifier{}
	drainer := newTestDrainer(t, queue, notifier, 20*time.Millisecond)

	drainer.HandleOnline(context.Background())
	waitForEmptyQueue(t, queue)
	drainer.Stop()

	kinds := notifier.kinds()
	if len(kinds) != 2 || kinds[0] != enums.NotificationKindInfo || kinds[1] != enums.NotificationKindSuccess {
		t.Fatalf("notification kinds = %v, want [info success]", kinds)
	}
}

func TestHandleOnlineWithEmptyQueueIsQuiet(t *testing.T) {
	queue := &memoryQueue{}
	notifier := &safeNotifier{}
	drainer := newTestDrainer(t, queue, notifier, time.Millisecond)

	drainer.HandleOnline(context.Background())
	drainer.Stop()

	if len(notifier.kinds()) != 0 {
		t.Fatalf("notifications = %v, want none", notifier.kinds())
	}
}

func TestHandleOfflineCancelsPendingDrain(t *testing.T) {
	queue := &memoryQueue{items: queuedItems(2)}
	notifier := &safeNotifier{}
	drainer := newTestDrainer(t, queue, notifier, 200*time.Millisecond)
	ctx := context.Background()

	drainer.HandleOnline(ctx)
	drainer.HandleOffline(ctx)
	drainer.Stop()

	if got := queue.PendingSyncCount(ctx); got != 2 {
		t.Fatalf("queue depth = %d, want untouched queue after cancel", got)
	}
	kinds := notifier.kinds()
	if len(kinds) != 1 || kinds[0] != enums.NotificationKindInfo {
		t.Fatalf("notification kinds = %v, want only the reconnect notice", kinds)
	}
}

func TestReconnectAfterCancelDrainsEverything(t *testing.T) {
	queue := &memoryQueue{items: queuedItems(2)}
	notifier := &safeNotifier{}
	drainer := newTestDrainer(t, queue, notifier, 30*time.Millisecond)
	ctx := context.Background()

	drainer.HandleOnline(ctx)
	drainer.HandleOffline(ctx)
	drainer.HandleOnline(ctx)
	waitForEmptyQueue(t, queue)
	drainer.Stop()
}

type countingBookkeeper struct {
	mu    sync.Mutex
	key   string
	count int64
}

func (c *countingBookkeeper) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.count++
	return c.count, nil
}

func (c *countingBookkeeper) CounterKey(name string) string {
	return "invenx:counter:" + name
}

func TestDrainRecordsBookkeeperCounter(t *testing.T) {
	queue := &memoryQueue{items: queuedItems(1)}
	bookkeeper := &countingBookkeeper{}
	drainer, err := NewDrainer(DrainerParams{
		Logger:     logger.New(logger.Options{Output: io.Discard}),
		Queue:      queue,
		Notifier:   &safeNotifier{},
		Bookkeeper: bookkeeper,
		DrainDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewDrainer: %v", err)
	}

	drainer.HandleOnline(context.Background())
	waitForEmptyQueue(t, queue)
	drainer.Stop()

	bookkeeper.mu.Lock()
	defer bookkeeper.mu.Unlock()
	if bookkeeper.count != 1 {
		t.Fatalf("drain count = %d, want 1", bookkeeper.count)
	}
	if bookkeeper.key != "invenx:counter:drains" {
		t.Fatalf("counter key = %q", bookkeeper.key)
	}
}

func TestStopIsSafeWithoutDrain(t *testing.T) {
	drainer := newTestDrainer(t, &memoryQueue{}, &safeNotifier{}, time.Millisecond)
	drainer.Stop()
	drainer.Stop()
}
