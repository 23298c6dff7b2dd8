// Package storage owns the durable representation of the record sets: the
// ticket set, the statistics feed, the TTL cache and the settings flags. All
// other components go through Store; nothing else touches the backend.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written or
// was deleted.
var ErrNotFound = errors.New("storage: key not found")

// KV is the minimal key-value contract a backend must satisfy. Values are
// opaque serialized record sets; a whole record set is written per mutation,
// last writer wins.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
