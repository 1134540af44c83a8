package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/greyden/greyden/internal/interfaces"
)

// orderEventsExchange fans status-change notifications out to every
// subscriber (dashboards, the notification service).
const orderEventsExchange = "order_events"

type publisher struct {
	conn Connection
}

func NewPublisher(conn Connection) interfaces.NotificationPublisher {
	return &publisher{conn: conn}
}

func (p *publisher) PublishStatusChange(ctx context.Context, msg interfaces.StatusChangeMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(orderEventsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(orderEventsExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
