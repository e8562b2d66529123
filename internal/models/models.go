package models

import "time"

type TableEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

type FileEntry struct {
	Filename string       `json:"filename"`
	Tables   []TableEntry `json:"tables"`
}

// TableCountLabel reads "1 extracted table" for a single table and
// "N extracted tables" otherwise, including zero.
func (f FileEntry) TableCountLabel() string {
	return TableCountLabel(len(f.Tables))
}

type DocumentSummary struct {
	Key        string `json:"key"`
	Filename   string `json:"filename"`
	TableCount int    `json:"table_count"`
}

type Snapshot struct {
	SnapshotID  string    `json:"snapshot_id"`
	Source      string    `json:"source"`
	ContentHash string    `json:"content_hash"`
	Documents   int       `json:"documents"`
	CreatedAt   time.Time `json:"created_at"`
	Manifest    Manifest  `json:"manifest"`
}

type DocumentAudit struct {
	Key               string   `json:"key"`
	Filename          string   `json:"filename"`
	Path              string   `json:"path,omitempty"`
	Kind              string   `json:"kind"`
	Unmapped          bool     `json:"unmapped,omitempty"`
	Missing           bool     `json:"missing,omitempty"`
	Pages             int      `json:"pages,omitempty"`
	Tables            int      `json:"tables"`
	DuplicateTableIDs []string `json:"duplicate_table_ids,omitempty"`
	Error             string   `json:"error,omitempty"`
}

func (d DocumentAudit) OK() bool {
	return !d.Unmapped && !d.Missing && len(d.DuplicateTableIDs) == 0 && d.Error == ""
}

type AuditReport struct {
	Documents []DocumentAudit `json:"documents"`
	Unmapped  int             `json:"unmapped"`
	Missing   int             `json:"missing"`
}
