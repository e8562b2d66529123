package activities

import "tableview/internal/models"

type FetchManifestInput struct {
	Location string `json:"location"`
}

type FetchManifestOutput struct {
	Manifest    models.Manifest `json:"manifest"`
	ContentHash string          `json:"content_hash"`
	Source      string          `json:"source"`
}

type AuditManifestInput struct {
	Manifest models.Manifest `json:"manifest"`
}

type StoreSnapshotInput struct {
	Manifest    models.Manifest `json:"manifest"`
	ContentHash string          `json:"content_hash"`
	Source      string          `json:"source"`
}

type StoreSnapshotOutput struct {
	SnapshotID string `json:"snapshot_id,omitempty"`
	Unchanged  bool   `json:"unchanged"`
}
