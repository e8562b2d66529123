package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS manifest_snapshots (
  snapshot_id  UUID PRIMARY KEY,
  source       TEXT NOT NULL,
  content_hash TEXT NOT NULL,
  documents    INT NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS manifest_snapshots_created_idx ON manifest_snapshots (created_at DESC);
CREATE TABLE IF NOT EXISTS manifest_documents (
  snapshot_id UUID NOT NULL REFERENCES manifest_snapshots (snapshot_id) ON DELETE CASCADE,
  position    INT NOT NULL,
  doc_key     TEXT NOT NULL,
  filename    TEXT NOT NULL,
  PRIMARY KEY (snapshot_id, doc_key)
);
CREATE TABLE IF NOT EXISTS manifest_tables (
  snapshot_id UUID NOT NULL REFERENCES manifest_snapshots (snapshot_id) ON DELETE CASCADE,
  doc_key     TEXT NOT NULL,
  position    INT NOT NULL,
  table_id    TEXT NOT NULL,
  title       TEXT NOT NULL,
  html        TEXT NOT NULL,
  PRIMARY KEY (snapshot_id, doc_key, position)
);`

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}
