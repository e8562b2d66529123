package activities

import (
	"context"
	"encoding/json"
	"fmt"

	"tableview/internal/assets"
	"tableview/internal/config"
	"tableview/internal/loader"
	"tableview/internal/models"
	"tableview/internal/storage"
	"tableview/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s models.Snapshot) error
	LatestContentHash(ctx context.Context) (string, error)
}

type Activities struct {
	cfg       config.Config
	paths     assets.PathTable
	snapshots SnapshotStore
	logger    *zap.Logger
}

func New(cfg config.Config, db *storage.DB, logger *zap.Logger) (*Activities, error) {
	return NewWithStore(cfg, storage.NewManifestRepo(db), logger)
}

func NewWithStore(cfg config.Config, store SnapshotStore, logger *zap.Logger) (*Activities, error) {
	paths, err := assets.LoadPathTable(cfg.PathsFile)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Activities{cfg: cfg, paths: paths, snapshots: store, logger: logger}, nil
}

func (a *Activities) FetchManifestActivity(ctx context.Context, in FetchManifestInput) (FetchManifestOutput, error) {
	location := in.Location
	if location == "" {
		location = a.cfg.ManifestURL
	}
	src := loader.SourceFor(location)
	m, err := src.Fetch(ctx)
	if err != nil {
		return FetchManifestOutput{}, err
	}
	hash, err := ContentHash(m)
	if err != nil {
		return FetchManifestOutput{}, err
	}
	a.logger.Info("fetched manifest for sync", zap.String("source", src.Name()), zap.Int("documents", m.Len()))
	return FetchManifestOutput{Manifest: m, ContentHash: hash, Source: src.Name()}, nil
}

func (a *Activities) AuditManifestActivity(ctx context.Context, in AuditManifestInput) (models.AuditReport, error) {
	_ = ctx
	report := assets.Audit(in.Manifest, a.paths, a.cfg.PublicDir)
	for _, d := range report.Documents {
		if !d.OK() {
			a.logger.Warn("manifest document needs attention",
				zap.String("document", d.Key),
				zap.Bool("unmapped", d.Unmapped),
				zap.Bool("missing", d.Missing),
				zap.Strings("duplicate_table_ids", d.DuplicateTableIDs),
				zap.String("error", d.Error),
			)
		}
	}
	return report, nil
}

func (a *Activities) StoreSnapshotActivity(ctx context.Context, in StoreSnapshotInput) (StoreSnapshotOutput, error) {
	latest, err := a.snapshots.LatestContentHash(ctx)
	if err != nil {
		return StoreSnapshotOutput{}, err
	}
	// Only the newest snapshot counts; an older identical one is superseded.
	if latest != "" && latest == in.ContentHash {
		return StoreSnapshotOutput{Unchanged: true}, nil
	}
	s := models.Snapshot{
		SnapshotID:  uuid.NewString(),
		Source:      in.Source,
		ContentHash: in.ContentHash,
		Documents:   in.Manifest.Len(),
		Manifest:    in.Manifest,
	}
	if err := a.snapshots.SaveSnapshot(ctx, s); err != nil {
		return StoreSnapshotOutput{}, err
	}
	a.logger.Info("stored manifest snapshot", zap.String("snapshot_id", s.SnapshotID), zap.Int("documents", s.Documents))
	return StoreSnapshotOutput{SnapshotID: s.SnapshotID}, nil
}

// ContentHash fingerprints a manifest in enumeration order.
func ContentHash(m models.Manifest) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest for hash: %w", err)
	}
	return util.SHA256Hex(b), nil
}
