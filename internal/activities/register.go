package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.FetchManifestActivity)
	w.RegisterActivity(a.AuditManifestActivity)
	w.RegisterActivity(a.StoreSnapshotActivity)
}
