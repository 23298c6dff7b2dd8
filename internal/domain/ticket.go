package domain

import "time"

// Ticket is a single-use transit authorization. It is created Active and
// transitions to Expired exactly once; IsExpired never reverts.
type Ticket struct {
	ID              string    `json:"id"`
	SerialNumbers   []string  `json:"serialNumbers"`
	TransportNumber string    `json:"transportNumber"`
	Passengers      int       `json:"passengers"`
	PurchaseTime    time.Time `json:"purchaseTime"`
	DurationSeconds int       `json:"duration"`
	IsExpired       bool      `json:"isExpired"`
}

// RemainingSeconds is the validity left at the given instant, clamped to zero.
// Expiration is a pure function of PurchaseTime and DurationSeconds; display
// timers only refresh it, they are never the authority.
func (t Ticket) RemainingSeconds(now time.Time) int {
	elapsed := int(now.Sub(t.PurchaseTime) / time.Second)
	remaining := t.DurationSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Due reports whether the ticket's validity window has run out.
func (t Ticket) Due(now time.Time) bool {
	return t.RemainingSeconds(now) == 0
}
