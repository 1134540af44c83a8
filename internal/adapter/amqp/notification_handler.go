package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{logger: logger}
}

func (h *NotificationHandler) HandleStatusChange(ctx context.Context, body []byte) error {
	var msg interfaces.StatusChangeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse status change notification", "", nil, err)
		return err
	}

	h.logger.Info("status_change_received", fmt.Sprintf("Order %d moved from %s to %s", msg.OrderID, msg.OldStatus, msg.NewStatus), "",
		map[string]interface{}{
			"order_id":   msg.OrderID,
			"old_status": msg.OldStatus,
			"new_status": msg.NewStatus,
			"changed_by": msg.ChangedBy,
		})

	return nil
}
