package connectivity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/invenx-app/invenx-backend/pkg/metrics"
)

const defaultPollInterval = 5 * time.Second

// PendingCounter exposes the depth of the reconciliation queue.
type PendingCounter interface {
	PendingSyncCount(ctx context.Context) int
}

// Listener receives connectivity transitions. Callbacks run on the goroutine
// that triggered the transition.
type Listener interface {
	HandleOnline(ctx context.Context)
	HandleOffline(ctx context.Context)
}

// Status is the connectivity snapshot exposed to the edge.
type Status struct {
	IsOnline          bool `json:"isOnline"`
	HasPendingChanges bool `json:"hasPendingChanges"`
	PendingCount      int  `json:"pendingCount"`
}

// MonitorParams configure the connectivity monitor.
type MonitorParams struct {
	Logger       *logger.Logger
	Pending      PendingCounter
	Notifier     notify.Notifier
	Metrics      *metrics.LedgerMetrics
	PollInterval time.Duration
	StartOnline  bool
}

// Monitor tracks whether the device can reach the network and whether queued
// work is waiting on a reconnect. Transitions are pushed through SetOnline;
// the queue depth is additionally refreshed on a fixed poll.
type Monitor struct {
	mu         sync.Mutex
	online     bool
	hasPending bool
	listeners  []Listener

	logg     *logger.Logger
	pending  PendingCounter
	notifier notify.Notifier
	metrics  *metrics.LedgerMetrics
	interval time.Duration
}

// NewMonitor builds a connectivity monitor.
func NewMonitor(params MonitorParams) (*Monitor, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pending == nil {
		return nil, fmt.Errorf("pending counter required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	interval := params.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Monitor{
		online:   params.StartOnline,
		logg:     params.Logger,
		pending:  params.Pending,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Subscribe registers a transition listener. Listeners added after a
// transition do not receive it retroactively.
func (m *Monitor) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// IsOnline reports the current connectivity flag.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Status refreshes the pending flag and returns the full snapshot.
func (m *Monitor) Status(ctx context.Context) Status {
	count := m.pending.PendingSyncCount(ctx)
	m.metrics.SetQueueDepth(count)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasPending = count > 0
	return Status{
		IsOnline:          m.online,
		HasPendingChanges: m.hasPending,
		PendingCount:      count,
	}
}

// SetOnline applies a connectivity transition. Setting the current state is a
// no-op; a real transition notifies listeners and, when going offline, warns
// the shell that changes will queue locally.
func (m *Monitor) SetOnline(ctx context.Context, online bool) bool {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return false
	}
	m.online = online
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	ctx = m.logg.WithField(ctx, "online", online)
	m.logg.Info(ctx, "connectivity transition")

	if online {
		for _, listener := range listeners {
			listener.HandleOnline(ctx)
		}
	} else {
		m.notifier.Publish(ctx, notify.Notification{
			Kind:    enums.NotificationKindWarning,
			Title:   "You're offline",
			Message: "Changes will be saved locally and synced when you reconnect.",
		})
		for _, listener := range listeners {
			listener.HandleOffline(ctx)
		}
	}
	return true
}

// Run polls the queue depth until the context is canceled. Transitions still
// arrive out of band through SetOnline; the poll only keeps the pending flag
// and gauge fresh.
func (m *Monitor) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m.Status(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logg.Info(ctx, "connectivity monitor context canceled")
			return ctx.Err()
		case <-ticker.C:
			m.Status(ctx)
		}
	}
}
