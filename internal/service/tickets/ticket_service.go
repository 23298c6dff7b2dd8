package tickets

import (
	"context"
	"errors"
	"log"
	"time"
	"unicode"

	"github.com/mkravets/transitpass/internal/domain"
	"github.com/mkravets/transitpass/internal/idgen"
	"github.com/mkravets/transitpass/internal/kafka"
	"github.com/mkravets/transitpass/internal/metrics"
	"github.com/mkravets/transitpass/internal/storage"
)

type TicketUseCase interface {
	CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	ListTickets(ctx context.Context) []domain.Ticket
	RemainingSeconds(ticket domain.Ticket) int
	MarkExpiredIfDue(ctx context.Context, ticketID string) error
	ExpireDueTickets(ctx context.Context) ([]domain.Ticket, error)
	ClearHistory(ctx context.Context, clearAll bool) error
	SetPersistenceEnabled(ctx context.Context, enabled bool) error
	PersistenceEnabled(ctx context.Context) bool
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateTicketInput struct {
	TransportNumber string `json:"transport_number"`
	Passengers      int    `json:"passengers"`
}

type TicketService struct {
	store              *storage.Store
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	duration           time.Duration
	now                func() time.Time
}

type TicketServiceOption func(*TicketService)

func WithNotificationsTopic(topic string) TicketServiceOption {
	return func(s *TicketService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) TicketServiceOption {
	return func(s *TicketService) {
		s.now = now
	}
}

func NewTicketService(store *storage.Store, producer Producer, eventsTopic string, duration time.Duration, opts ...TicketServiceOption) *TicketService {
	s := &TicketService{
		store:       store,
		producer:    producer,
		eventsTopic: eventsTopic,
		duration:    duration,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTicket validates the purchase input, generates one serial per
// passenger and prepends the new ticket to the set. The ticket is returned to
// the caller even when persistence is disabled; only the stored set is left
// unchanged. A statistics entry is appended regardless of the gate.
func (s *TicketService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if input.TransportNumber == "" {
		return nil, domain.NewValidationError("transportNumber", "must not be empty")
	}
	if !numericOnly(input.TransportNumber) {
		return nil, domain.NewValidationError("transportNumber", "must contain digits only")
	}
	if input.Passengers < 1 {
		return nil, domain.NewValidationError("passengers", "must be at least 1")
	}

	ticket := domain.Ticket{
		ID:              idgen.NewTicketID(),
		SerialNumbers:   idgen.NewSerials(input.Passengers),
		TransportNumber: input.TransportNumber,
		Passengers:      input.Passengers,
		PurchaseTime:    s.now(),
		DurationSeconds: int(s.duration / time.Second),
		IsExpired:       false,
	}

	set := s.store.LoadTickets(ctx)
	set = append([]domain.Ticket{ticket}, set...)
	if err := s.store.SaveTickets(ctx, set); err != nil {
		if !errors.Is(err, storage.ErrPersistenceDisabled) {
			log.Printf("save tickets: %v", err)
		}
	}

	if err := s.store.AppendStatistics(ctx, domain.StatsEntry{
		PurchaseTime: ticket.PurchaseTime,
		Passengers:   ticket.Passengers,
	}); err != nil {
		log.Printf("append statistics: %v", err)
	}

	metrics.TicketsCreated.Inc()
	metrics.PassengersServed.Add(float64(ticket.Passengers))
	s.publish(ctx, "ticket_created", ticket)

	return &ticket, nil
}

// ListTickets returns the stored ticket set, newest first.
func (s *TicketService) ListTickets(ctx context.Context) []domain.Ticket {
	return s.store.LoadTickets(ctx)
}

// RemainingSeconds is the validity left right now, clamped to zero. It is
// recomputed from the wall clock on every call, never stored.
func (s *TicketService) RemainingSeconds(ticket domain.Ticket) int {
	return ticket.RemainingSeconds(s.now())
}

// MarkExpiredIfDue transitions the ticket to Expired once its remaining time
// has reached zero. Calling it again, or on an unknown ticket, is a no-op.
func (s *TicketService) MarkExpiredIfDue(ctx context.Context, ticketID string) error {
	set := s.store.LoadTickets(ctx)
	for i := range set {
		if set[i].ID != ticketID {
			continue
		}
		if set[i].IsExpired || !set[i].Due(s.now()) {
			return nil
		}
		set[i].IsExpired = true
		if err := s.store.SaveTickets(ctx, set); err != nil {
			if !errors.Is(err, storage.ErrPersistenceDisabled) {
				log.Printf("save expired ticket: %v", err)
			}
		}
		metrics.TicketsExpired.Inc()
		s.publish(ctx, "ticket_expired", set[i])
		return nil
	}
	return nil
}

// ExpireDueTickets marks every due ticket expired in one pass and returns the
// newly expired tickets. Used by the worker sweep.
func (s *TicketService) ExpireDueTickets(ctx context.Context) ([]domain.Ticket, error) {
	set := s.store.LoadTickets(ctx)
	now := s.now()

	var expired []domain.Ticket
	for i := range set {
		if set[i].IsExpired || !set[i].Due(now) {
			continue
		}
		set[i].IsExpired = true
		expired = append(expired, set[i])
	}
	if len(expired) == 0 {
		return nil, nil
	}

	if err := s.store.SaveTickets(ctx, set); err != nil {
		if !errors.Is(err, storage.ErrPersistenceDisabled) {
			return nil, err
		}
	}
	for _, t := range expired {
		metrics.TicketsExpired.Inc()
		s.publish(ctx, "ticket_expired", t)
	}
	return expired, nil
}

// ClearHistory empties the ticket set. With clearAll it also deletes the
// statistics feed and the cache; otherwise both survive.
func (s *TicketService) ClearHistory(ctx context.Context, clearAll bool) error {
	if err := s.store.ClearTickets(ctx); err != nil {
		return err
	}
	if !clearAll {
		return nil
	}
	if err := s.store.ClearStatistics(ctx); err != nil {
		return err
	}
	return s.store.ClearCache(ctx)
}

func (s *TicketService) SetPersistenceEnabled(ctx context.Context, enabled bool) error {
	return s.store.SetEnabled(ctx, enabled)
}

func (s *TicketService) PersistenceEnabled(ctx context.Context) bool {
	return s.store.Enabled(ctx)
}

func (s *TicketService) publish(ctx context.Context, eventType string, ticket domain.Ticket) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.TicketEvent{
		Type:            eventType,
		TicketID:        ticket.ID,
		TransportNumber: ticket.TransportNumber,
		Passengers:      ticket.Passengers,
		PurchaseTime:    ticket.PurchaseTime,
		ExpiresAt:       ticket.PurchaseTime.Add(time.Duration(ticket.DurationSeconds) * time.Second),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, ticket.ID, event); err != nil {
		log.Printf("publish %s event for ticket %s: %v", eventType, ticket.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, ticket.ID, event); err != nil {
			log.Printf("publish notification for ticket %s: %v", ticket.ID, err)
		}
	}
}

func numericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var _ TicketUseCase = (*TicketService)(nil)
