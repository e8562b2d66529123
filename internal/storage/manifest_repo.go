package storage

import (
	"context"
	"errors"
	"fmt"

	"tableview/internal/models"
	"tableview/internal/util"

	"github.com/jackc/pgx/v5"
)

type ManifestRepo struct {
	db *DB
}

func NewManifestRepo(db *DB) *ManifestRepo {
	return &ManifestRepo{db: db}
}

func (r *ManifestRepo) Name() string { return "postgres:manifest_snapshots" }

// SaveSnapshot writes the snapshot and its documents in one transaction.
// Document and table positions record enumeration order.
func (r *ManifestRepo) SaveSnapshot(ctx context.Context, s models.Snapshot) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
INSERT INTO manifest_snapshots (snapshot_id, source, content_hash, documents)
VALUES ($1, $2, $3, $4)`, s.SnapshotID, s.Source, s.ContentHash, s.Manifest.Len()); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	for pos, key := range s.Manifest.Keys() {
		entry, _ := s.Manifest.Get(key)
		batch.Queue(`INSERT INTO manifest_documents (snapshot_id, position, doc_key, filename) VALUES ($1, $2, $3, $4)`,
			s.SnapshotID, pos, key, entry.Filename)
		for tpos, t := range entry.Tables {
			batch.Queue(`INSERT INTO manifest_tables (snapshot_id, doc_key, position, table_id, title, html) VALUES ($1, $2, $3, $4, $5, $6)`,
				s.SnapshotID, key, tpos, t.ID, util.StorableText(t.Title), util.StorableText(t.HTML))
		}
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert snapshot documents: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LatestContentHash returns the hash of the newest snapshot, or "" when none
// has been stored.
func (r *ManifestRepo) LatestContentHash(ctx context.Context) (string, error) {
	var hash string
	err := r.db.Pool.QueryRow(ctx, `SELECT content_hash FROM manifest_snapshots ORDER BY created_at DESC LIMIT 1`).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get latest snapshot hash: %w", err)
	}
	return hash, nil
}

func (r *ManifestRepo) LatestSnapshot(ctx context.Context) (models.Snapshot, error) {
	var s models.Snapshot
	err := r.db.Pool.QueryRow(ctx, `
SELECT snapshot_id::text, source, content_hash, documents, created_at
FROM manifest_snapshots
ORDER BY created_at DESC
LIMIT 1`).Scan(&s.SnapshotID, &s.Source, &s.ContentHash, &s.Documents, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Snapshot{}, util.ErrNoSnapshot
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	m, err := r.loadManifest(ctx, s.SnapshotID)
	if err != nil {
		return models.Snapshot{}, err
	}
	s.Manifest = m
	return s, nil
}

// Fetch serves the latest snapshot as the viewer's manifest source.
func (r *ManifestRepo) Fetch(ctx context.Context) (models.Manifest, error) {
	s, err := r.LatestSnapshot(ctx)
	if err != nil {
		return models.Manifest{}, err
	}
	return s.Manifest, nil
}

func (r *ManifestRepo) loadManifest(ctx context.Context, snapshotID string) (models.Manifest, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT doc_key, filename
FROM manifest_documents
WHERE snapshot_id=$1
ORDER BY position`, snapshotID)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("list snapshot documents: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	entries := map[string]models.FileEntry{}
	for rows.Next() {
		var key string
		var entry models.FileEntry
		if err := rows.Scan(&key, &entry.Filename); err != nil {
			return models.Manifest{}, fmt.Errorf("scan snapshot document: %w", err)
		}
		entry.Tables = []models.TableEntry{}
		keys = append(keys, key)
		entries[key] = entry
	}
	if err := rows.Err(); err != nil {
		return models.Manifest{}, fmt.Errorf("iterate snapshot documents: %w", err)
	}

	trows, err := r.db.Pool.Query(ctx, `
SELECT doc_key, table_id, title, html
FROM manifest_tables
WHERE snapshot_id=$1
ORDER BY doc_key, position`, snapshotID)
	if err != nil {
		return models.Manifest{}, fmt.Errorf("list snapshot tables: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var key string
		var t models.TableEntry
		if err := trows.Scan(&key, &t.ID, &t.Title, &t.HTML); err != nil {
			return models.Manifest{}, fmt.Errorf("scan snapshot table: %w", err)
		}
		entry := entries[key]
		entry.Tables = append(entry.Tables, t)
		entries[key] = entry
	}
	if err := trows.Err(); err != nil {
		return models.Manifest{}, fmt.Errorf("iterate snapshot tables: %w", err)
	}

	m := models.NewManifest()
	for _, k := range keys {
		m.Add(k, entries[k])
	}
	return m, nil
}
