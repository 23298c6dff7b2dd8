package domain

import (
	"encoding/json"
	"time"
)

// CacheEntry is a TTL-bounded memoized value. Entries older than the TTL are
// a normal miss, not an error: the next access regenerates them.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Expired reports whether the entry's age has reached the TTL.
func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) >= ttl
}
