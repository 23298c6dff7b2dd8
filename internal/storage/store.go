package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/domain"
)

// ErrPersistenceDisabled is returned by ticket-set writes while the user has
// persistence switched off. The attempted data is dropped, not queued.
var ErrPersistenceDisabled = errors.New("storage: persistence is disabled")

// Store maps the named record sets onto a KV backend. Reads never fail: a
// missing or corrupt record set degrades to the documented empty default and
// the failure is only logged.
type Store struct {
	kv   KV
	keys config.StorageConfig
}

func NewStore(kv KV, keys config.StorageConfig) *Store {
	return &Store{kv: kv, keys: keys}
}

// ticketRecord is the stored shape of a ticket. Legacy records carry a scalar
// serialNumber and possibly no passengers field; upgrade normalizes them.
type ticketRecord struct {
	ID              string    `json:"id"`
	SerialNumbers   []string  `json:"serialNumbers,omitempty"`
	SerialNumber    string    `json:"serialNumber,omitempty"`
	TransportNumber string    `json:"transportNumber"`
	Passengers      int       `json:"passengers,omitempty"`
	PurchaseTime    time.Time `json:"purchaseTime"`
	Duration        int       `json:"duration"`
	IsExpired       bool      `json:"isExpired"`
}

// upgrade converts a stored record to the current shape. The second return
// reports whether the record needed migration. Running upgrade on an already
// current record changes nothing, so migration is idempotent.
func upgrade(rec ticketRecord) (domain.Ticket, bool) {
	migrated := false
	if len(rec.SerialNumbers) == 0 && rec.SerialNumber != "" {
		rec.SerialNumbers = []string{rec.SerialNumber}
		if rec.Passengers == 0 {
			rec.Passengers = 1
		}
		migrated = true
	}
	return domain.Ticket{
		ID:              rec.ID,
		SerialNumbers:   rec.SerialNumbers,
		TransportNumber: rec.TransportNumber,
		Passengers:      rec.Passengers,
		PurchaseTime:    rec.PurchaseTime,
		DurationSeconds: rec.Duration,
		IsExpired:       rec.IsExpired,
	}, migrated
}

func toRecord(t domain.Ticket) ticketRecord {
	return ticketRecord{
		ID:              t.ID,
		SerialNumbers:   t.SerialNumbers,
		TransportNumber: t.TransportNumber,
		Passengers:      t.Passengers,
		PurchaseTime:    t.PurchaseTime,
		Duration:        t.DurationSeconds,
		IsExpired:       t.IsExpired,
	}
}

// LoadTickets returns the ticket set, newest first. Records in the legacy
// shape are normalized on the way out and, if anything changed, the
// normalized set is written back (subject to the enabled-flag gate).
func (s *Store) LoadTickets(ctx context.Context) []domain.Ticket {
	data, err := s.kv.Get(ctx, s.keys.TicketsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("load tickets: %v", err)
		}
		return []domain.Ticket{}
	}

	var records []ticketRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("decode tickets: %v", err)
		return []domain.Ticket{}
	}

	tickets := make([]domain.Ticket, 0, len(records))
	anyMigrated := false
	for _, rec := range records {
		ticket, migrated := upgrade(rec)
		anyMigrated = anyMigrated || migrated
		tickets = append(tickets, ticket)
	}

	if anyMigrated {
		if err := s.SaveTickets(ctx, tickets); err != nil && !errors.Is(err, ErrPersistenceDisabled) {
			log.Printf("persist migrated tickets: %v", err)
		}
	}
	return tickets
}

// SaveTickets writes the whole ticket set. It is a no-op returning
// ErrPersistenceDisabled while the persistence flag is off.
func (s *Store) SaveTickets(ctx context.Context, tickets []domain.Ticket) error {
	if !s.Enabled(ctx) {
		return ErrPersistenceDisabled
	}
	records := make([]ticketRecord, 0, len(tickets))
	for _, t := range tickets {
		records = append(records, toRecord(t))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.keys.TicketsKey, data)
}

// LoadStatistics returns the statistics feed, or an empty feed on any failure.
func (s *Store) LoadStatistics(ctx context.Context) domain.StatsFeed {
	data, err := s.kv.Get(ctx, s.keys.StatisticsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("load statistics: %v", err)
		}
		return domain.StatsFeed{Tickets: []domain.StatsEntry{}}
	}
	var feed domain.StatsFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		log.Printf("decode statistics: %v", err)
		return domain.StatsFeed{Tickets: []domain.StatsEntry{}}
	}
	if feed.Tickets == nil {
		feed.Tickets = []domain.StatsEntry{}
	}
	return feed
}

// SaveStatistics writes the feed. Statistics writes are not gated by the
// persistence flag; only statistics reads are (see the aggregator).
func (s *Store) SaveStatistics(ctx context.Context, feed domain.StatsFeed) error {
	data, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.keys.StatisticsKey, data)
}

// AppendStatistics appends one purchase projection to the feed.
func (s *Store) AppendStatistics(ctx context.Context, entry domain.StatsEntry) error {
	feed := s.LoadStatistics(ctx)
	feed.Tickets = append(feed.Tickets, entry)
	return s.SaveStatistics(ctx, feed)
}

// LoadCache returns the cache map, or an empty map on any failure.
func (s *Store) LoadCache(ctx context.Context) map[string]domain.CacheEntry {
	data, err := s.kv.Get(ctx, s.keys.CacheKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("load cache: %v", err)
		}
		return map[string]domain.CacheEntry{}
	}
	var cache map[string]domain.CacheEntry
	if err := json.Unmarshal(data, &cache); err != nil {
		log.Printf("decode cache: %v", err)
		return map[string]domain.CacheEntry{}
	}
	return cache
}

func (s *Store) SaveCache(ctx context.Context, cache map[string]domain.CacheEntry) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.keys.CacheKey, data)
}

// CacheSizeBytes reports the serialized size of the cache record set.
func (s *Store) CacheSizeBytes(ctx context.Context) int {
	data, err := s.kv.Get(ctx, s.keys.CacheKey)
	if err != nil {
		return 0
	}
	return len(data)
}

// ClearTickets deletes the ticket set only. The statistics feed and the cache
// are independent record sets and stay untouched.
func (s *Store) ClearTickets(ctx context.Context) error {
	return s.kv.Delete(ctx, s.keys.TicketsKey)
}

func (s *Store) ClearStatistics(ctx context.Context) error {
	return s.kv.Delete(ctx, s.keys.StatisticsKey)
}

func (s *Store) ClearCache(ctx context.Context) error {
	return s.kv.Delete(ctx, s.keys.CacheKey)
}

// Enabled reports the persistence flag. An unset flag means enabled.
func (s *Store) Enabled(ctx context.Context) bool {
	data, err := s.kv.Get(ctx, s.keys.EnabledFlagKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("load persistence flag: %v", err)
		}
		return true
	}
	enabled, err := strconv.ParseBool(string(data))
	if err != nil {
		return true
	}
	return enabled
}

func (s *Store) SetEnabled(ctx context.Context, enabled bool) error {
	return s.kv.Set(ctx, s.keys.EnabledFlagKey, []byte(strconv.FormatBool(enabled)))
}
