package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/invenx-app/invenx-backend/pkg/metrics"
	"github.com/invenx-app/invenx-backend/pkg/redis"
)

// Notification is a transient notice for the device shell. Delivery is
// fire-and-forget; the core never waits for acknowledgement.
type Notification struct {
	Kind    enums.NotificationKind `json:"kind"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	SentAt  time.Time              `json:"sentAt"`
}

// Notifier pushes notices toward the shell.
type Notifier interface {
	Publish(ctx context.Context, notification Notification)
}

// latestNoticeTTL bounds how long a missed notice stays readable after the
// shell was away.
const latestNoticeTTL = 24 * time.Hour

type redisNotifier struct {
	sink    redis.NotificationSink
	channel string
	logg    *logger.Logger
	metrics *metrics.LedgerMetrics
}

// NewRedisNotifier publishes notices on a pub/sub channel the shell
// subscribes to, and keeps the latest notice at a keyed copy for shells that
// reconnect after missing the broadcast. Failures are logged, never
// propagated.
func NewRedisNotifier(sink redis.NotificationSink, channel string, logg *logger.Logger, m *metrics.LedgerMetrics) (Notifier, error) {
	if sink == nil {
		return nil, fmt.Errorf("redis sink required")
	}
	if channel == "" {
		return nil, fmt.Errorf("notification channel required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &redisNotifier{sink: sink, channel: channel, logg: logg, metrics: m}, nil
}

func (n *redisNotifier) Publish(ctx context.Context, notification Notification) {
	if notification.SentAt.IsZero() {
		notification.SentAt = time.Now().UTC()
	}
	n.metrics.IncNotification(string(notification.Kind))

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logg.Error(ctx, "failed to encode notification", err)
		return
	}
	if err := n.sink.Publish(ctx, n.channel, string(payload)); err != nil {
		n.logg.Error(ctx, "failed to publish notification", err)
	}
	if err := n.sink.Set(ctx, n.sink.NotificationKey("latest"), string(payload), latestNoticeTTL); err != nil {
		n.logg.Error(ctx, "failed to store latest notification", err)
	}
}

type logNotifier struct {
	logg    *logger.Logger
	metrics *metrics.LedgerMetrics
}

// NewLogNotifier writes notices to the structured log. It backs deployments
// without a Redis endpoint and keeps tests quiet.
func NewLogNotifier(logg *logger.Logger, m *metrics.LedgerMetrics) (Notifier, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &logNotifier{logg: logg, metrics: m}, nil
}

func (n *logNotifier) Publish(ctx context.Context, notification Notification) {
	n.metrics.IncNotification(string(notification.Kind))
	ctx = n.logg.WithFields(ctx, map[string]any{
		"kind":  notification.Kind,
		"title": notification.Title,
	})
	switch notification.Kind {
	case enums.NotificationKindWarning:
		n.logg.Warn(ctx, notification.Message)
	default:
		n.logg.Info(ctx, notification.Message)
	}
}
