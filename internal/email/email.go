package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/sirupsen/logrus"
)

// ErrNoRecipient marks an event that can never be delivered.
var ErrNoRecipient = errors.New("no recipient")

// Sender delivers order confirmations. Delivery is a structured log line; a
// real mail transport plugs in behind the same method.
type Sender struct {
	logger *logrus.Logger
}

func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.OrderEvent) error {
	if event.Email == "" {
		return fmt.Errorf("order %d: %w", event.OrderID, ErrNoRecipient)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type,
		"order_id": event.OrderID,
		"to":       event.Email,
	}).Info(Body(event))
	return nil
}

// Body renders the confirmation text for event.
func Body(event kafka.OrderEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order #%d confirmed, %d ticket(s)", event.OrderID, len(event.Tickets))
	for _, t := range event.Tickets {
		fmt.Fprintf(&b, "; flight %d row %d seat %d", t.FlightID, t.Row, t.Seat)
		if t.Source != "" || t.Destination != "" {
			fmt.Fprintf(&b, " (%s -> %s)", t.Source, t.Destination)
		}
	}
	return b.String()
}
