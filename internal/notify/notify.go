package notify

import (
	"context"
	"fmt"

	"github.com/mkravets/transitpass/internal/kafka"
	"github.com/mkravets/transitpass/internal/timeutil"
)

// Sender turns ticket lifecycle events into user notifications. The demo
// delivery channel is the worker log.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	switch event.Type {
	case "ticket_created":
		fmt.Printf("notify: ticket %s for vehicle %s, %d passenger(s), valid until %s\n",
			event.TicketID, event.TransportNumber, event.Passengers, timeutil.FormatTime(event.ExpiresAt))
	case "ticket_expired":
		fmt.Printf("notify: ticket %s for vehicle %s expired at %s\n",
			event.TicketID, event.TransportNumber, timeutil.FormatTime(event.ExpiresAt))
	default:
		fmt.Printf("notify: ticket %s event %s\n", event.TicketID, event.Type)
	}
	return nil
}
