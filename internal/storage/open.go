package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkravets/transitpass/config"
)

// OpenKV builds the configured backend. The returned close function releases
// backend resources and is always non-nil.
func OpenKV(ctx context.Context, cfg *config.Config) (KV, func(), error) {
	switch cfg.Storage.Backend {
	case "", "file":
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "data"
		}
		kv, err := NewFileKV(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file backend: %w", err)
		}
		return kv, func() {}, nil
	case "memory":
		return NewMemoryKV(), func() {}, nil
	case "redis":
		kv := NewRedisKV(cfg.Redis)
		return kv, func() { _ = kv.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPGKV(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
