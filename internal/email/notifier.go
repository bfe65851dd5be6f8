package email

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/Domenick1991/airport/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Notifier turns order events read from Kafka into confirmations and reports
// each delivered one on the notifications topic.
type Notifier struct {
	sender    *Sender
	publisher Publisher
	topic     string
	logger    *logrus.Logger
}

func NewNotifier(sender *Sender, publisher Publisher, topic string, logger *logrus.Logger) *Notifier {
	return &Notifier{sender: sender, publisher: publisher, topic: topic, logger: logger}
}

// Handle processes one message. Undecodable messages, unknown event types and
// events without a recipient are skipped so they do not block the partition;
// only errors a redelivery could fix are returned.
func (n *Notifier) Handle(ctx context.Context, msg kafkago.Message) error {
	var event kafka.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.WithError(err).WithField("offset", msg.Offset).Warn("skipping undecodable order event")
		return nil
	}
	if event.Type != kafka.EventOrderCreated {
		return nil
	}

	if err := n.sender.Send(ctx, event); err != nil {
		if errors.Is(err, ErrNoRecipient) {
			n.logger.WithError(err).WithField("order_id", event.OrderID).Warn("skipping undeliverable order event")
			return nil
		}
		return err
	}

	if n.publisher == nil || n.topic == "" {
		return nil
	}
	notified := kafka.NewOrderEvent(kafka.EventOrderNotified, event.OrderID, event.UserID, event.Email, event.CreatedAt, event.Tickets)
	if err := n.publisher.Publish(ctx, n.topic, strconv.FormatInt(event.OrderID, 10), notified); err != nil {
		n.logger.WithError(err).WithField("order_id", event.OrderID).Warn("failed to publish notification record")
	}
	return nil
}
