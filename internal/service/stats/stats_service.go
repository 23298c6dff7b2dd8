package stats

import (
	"context"
	"math"
	"time"

	"github.com/mkravets/transitpass/internal/domain"
	"github.com/mkravets/transitpass/internal/storage"
)

type StatsUseCase interface {
	ComputeStatistics(ctx context.Context) domain.Statistics
	Backfill(ctx context.Context) error
}

// StatsService derives aggregate counts from the statistics feed alone; it
// never reads the ticket set.
type StatsService struct {
	store     *storage.Store
	unitPrice float64
	now       func() time.Time
}

type StatsServiceOption func(*StatsService)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) StatsServiceOption {
	return func(s *StatsService) {
		s.now = now
	}
}

func NewStatsService(store *storage.Store, unitPrice float64, opts ...StatsServiceOption) *StatsService {
	s := &StatsService{store: store, unitPrice: unitPrice, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeStatistics sums passengers over three windows plus the full feed.
// "Today" starts at local midnight, "week" is a rolling 7x24h window ending
// now, "month" starts at the first of the calendar month; the source behavior
// mixes the two boundary rules on purpose and both are kept. Comparisons
// include the boundary instant. While persistence is disabled the aggregate
// is all zeros without touching the feed.
func (s *StatsService) ComputeStatistics(ctx context.Context) domain.Statistics {
	if !s.store.Enabled(ctx) {
		return domain.Statistics{}
	}

	feed := s.store.LoadStatistics(ctx)
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var result domain.Statistics
	var spent float64
	for _, entry := range feed.Tickets {
		passengers := entry.Passengers
		if passengers == 0 {
			passengers = 1
		}
		spent += float64(passengers) * s.unitPrice
		result.Total += passengers

		if !entry.PurchaseTime.Before(todayStart) {
			result.Today += passengers
		}
		if !entry.PurchaseTime.Before(weekStart) {
			result.Week += passengers
		}
		if !entry.PurchaseTime.Before(monthStart) {
			result.Month += passengers
		}
	}
	result.TotalSpent = math.Round(spent*100) / 100
	return result
}

// Backfill rebuilds an empty statistics feed from the surviving ticket set,
// for installs that predate the separate feed. A non-empty feed is left
// alone.
func (s *StatsService) Backfill(ctx context.Context) error {
	feed := s.store.LoadStatistics(ctx)
	if len(feed.Tickets) > 0 {
		return nil
	}
	tickets := s.store.LoadTickets(ctx)
	if len(tickets) == 0 {
		return nil
	}
	for _, t := range tickets {
		passengers := t.Passengers
		if passengers == 0 {
			passengers = 1
		}
		feed.Tickets = append(feed.Tickets, domain.StatsEntry{
			PurchaseTime: t.PurchaseTime,
			Passengers:   passengers,
		})
	}
	return s.store.SaveStatistics(ctx, feed)
}

var _ StatsUseCase = (*StatsService)(nil)
