package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGKV keeps the record sets in a single Postgres table of jsonb payloads.
//
//	CREATE TABLE IF NOT EXISTS record_sets (
//	    name       text PRIMARY KEY,
//	    payload    jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
type PGKV struct {
	db *pgxpool.Pool
}

func NewPGKV(db *pgxpool.Pool) *PGKV {
	return &PGKV{db: db}
}

func (p *PGKV) Get(ctx context.Context, key string) ([]byte, error) {
	row := p.db.QueryRow(ctx, `SELECT payload FROM record_sets WHERE name=$1`, key)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

func (p *PGKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.Exec(ctx, `INSERT INTO record_sets (name, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`, key, value)
	return err
}

func (p *PGKV) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM record_sets WHERE name=$1`, key)
	return err
}

var _ KV = (*PGKV)(nil)
