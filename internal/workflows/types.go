package workflows

type ManifestSyncInput struct {
	ManifestURL string `json:"manifest_url"`
	MaxAttempts int    `json:"max_attempts"`
}

type SyncResult struct {
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Documents  int    `json:"documents"`
	Unmapped   int    `json:"unmapped"`
	Missing    int    `json:"missing"`
}

type SyncProgress struct {
	Step   string            `json:"step"`
	Status string            `json:"status"`
	Steps  map[string]string `json:"steps"`
}
