package connectivity

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
)

type stubCounter struct{ count int }

func (s *stubCounter) PendingSyncCount(context.Context) int { return s.count }

type recordingNotifier struct{ published []notify.Notification }

func (r *recordingNotifier) Publish(_ context.Context, notification notify.Notification) {
	r.published = append(r.published, notification)
}

type recordingListener struct {
	online  int
	offline int
}

func (r *recordingListener) HandleOnline(context.Context)  { r.online++ }
func (r *recordingListener) HandleOffline(context.Context) { r.offline++ }

func newTestMonitor(t *testing.T, counter PendingCounter, notifier notify.Notifier, startOnline bool) *Monitor {
	t.Helper()
	monitor, err := NewMonitor(MonitorParams{
		Logger:      logger.New(logger.Options{Output: io.Discard}),
		Pending:     counter,
		Notifier:    notifier,
		StartOnline: startOnline,
	})
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}
	return monitor
}

func TestNewMonitorValidatesDependencies(t *testing.T) {
	if _, err := NewMonitor(MonitorParams{}); err == nil {
		t.Fatal("expected error for missing logger")
	}
	if _, err := NewMonitor(MonitorParams{Logger: logger.New(logger.Options{Output: io.Discard})}); err == nil {
		t.Fatal("expected error for missing pending counter")
	}
}

func TestSetOnlineTransitionsOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := newTestMonitor(t, &stubCounter{}, notifier, true)
	listener := &recordingListener{}
	monitor.Subscribe(listener)
	ctx := context.Background()

	if monitor.SetOnline(ctx, true) {
		t.Fatal("expected no transition when already online")
	}
	if !monitor.SetOnline(ctx, false) {
		t.Fatal("expected transition to offline")
	}
	if monitor.SetOnline(ctx, false) {
		t.Fatal("expected repeated offline to be a no-op")
	}
	if !monitor.SetOnline(ctx, true) {
		t.Fatal("expected transition back online")
	}

	if listener.offline != 1 || listener.online != 1 {
		t.Fatalf("listener calls = %d offline / %d online, want 1/1", listener.offline, listener.online)
	}
}

func TestGoingOfflineWarnsTheShell(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := newTestMonitor(t, &stubCounter{}, notifier, true)

	monitor.SetOnline(context.Background(), false)

	if len(notifier.published) != 1 {
		t.Fatalf("published = %d, want 1", len(notifier.published))
	}
	if notifier.published[0].Kind != enums.NotificationKindWarning {
		t.Fatalf("kind = %s, want warning", notifier.published[0].Kind)
	}
}

func TestGoingOnlineDoesNotNotifyDirectly(t *testing.T) {
	notifier := &recordingNotifier{}
	monitor := newTestMonitor(t, &stubCounter{}, notifier, false)

	monitor.SetOnline(context.Background(), true)

	if len(notifier.published) != 0 {
		t.Fatalf("published = %d, want 0; reconnect notices belong to the drainer", len(notifier.published))
	}
}

func TestStatusReflectsQueueDepth(t *testing.T) {
	counter := &stubCounter{count: 3}
	monitor := newTestMonitor(t, counter, &recordingNotifier{}, true)
	ctx := context.Background()

	status := monitor.Status(ctx)
	if !status.IsOnline || !status.HasPendingChanges || status.PendingCount != 3 {
		t.Fatalf("status = %+v", status)
	}

	counter.count = 0
	status = monitor.Status(ctx)
	if status.HasPendingChanges || status.PendingCount != 0 {
		t.Fatalf("status after drain = %+v", status)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	monitor := newTestMonitor(t, &stubCounter{}, &recordingNotifier{}, true)
	monitor.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
