package assets

import "tableview/internal/models"

// Audit reports unmapped keys, missing asset files and repeated table ids.
// It never changes how a document is rendered. An empty root skips the file
// checks.
func Audit(m models.Manifest, table PathTable, root string) models.AuditReport {
	report := models.AuditReport{Documents: make([]models.DocumentAudit, 0, m.Len())}
	for _, key := range m.Keys() {
		entry, _ := m.Get(key)
		d := models.DocumentAudit{
			Key:               key,
			Filename:          entry.Filename,
			Path:              table.ResolvePath(key),
			Kind:              Kind(key),
			Tables:            len(entry.Tables),
			DuplicateTableIDs: duplicateIDs(entry.Tables),
		}
		if d.Path == "" {
			d.Unmapped = true
			report.Unmapped++
		} else if root != "" {
			info, err := Inspect(root, d.Path)
			if err != nil {
				d.Error = err.Error()
			}
			if !info.Exists {
				d.Missing = true
				report.Missing++
			}
			d.Pages = info.Pages
		}
		report.Documents = append(report.Documents, d)
	}
	return report
}

func duplicateIDs(tables []models.TableEntry) []string {
	seen := make(map[string]int, len(tables))
	var dups []string
	for _, t := range tables {
		seen[t.ID]++
		if seen[t.ID] == 2 {
			dups = append(dups, t.ID)
		}
	}
	return dups
}
