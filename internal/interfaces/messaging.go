package interfaces

import (
	"context"
	"time"

	"github.com/greyden/greyden/internal/domain"
)

// StatusChangeMessage is published to the order_events fanout after every
// effective status transition. Publishing is best-effort; the transition
// itself is already committed when the message goes out.
type StatusChangeMessage struct {
	OrderID   int64         `json:"order_id"`
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	ChangedBy string        `json:"changed_by"`
	ChangedAt time.Time     `json:"changed_at"`
}

type NotificationPublisher interface {
	PublishStatusChange(ctx context.Context, msg StatusChangeMessage) error
}

type NotificationConsumer interface {
	ConsumeStatusChanges(ctx context.Context, handler StatusChangeHandler) error
}

type StatusChangeHandler func(ctx context.Context, body []byte) error
