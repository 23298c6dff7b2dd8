package domain

import "time"

// StatsEntry is the minimal durable projection of a purchase. The feed is
// append-only and independent from the ticket set, so clearing ticket history
// does not erase historical counts.
type StatsEntry struct {
	PurchaseTime time.Time `json:"purchaseTime"`
	Passengers   int       `json:"passengers"`
}

// StatsFeed is the persisted statistics record set.
type StatsFeed struct {
	Tickets []StatsEntry `json:"tickets"`
}

// Statistics is the aggregate derived from the feed.
type Statistics struct {
	Today      int     `json:"today"`
	Week       int     `json:"week"`
	Month      int     `json:"month"`
	Total      int     `json:"total"`
	TotalSpent float64 `json:"totalSpent"`
}
