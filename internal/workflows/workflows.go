package workflows

import (
	"time"

	"tableview/internal/activities"
	"tableview/internal/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetSyncProgress = "GetSyncProgress"

	SyncStatusStored    = "stored"
	SyncStatusUnchanged = "unchanged"
)

// ManifestSyncWorkflow fetches a manifest, audits it against the path table
// and asset roots, and stores a snapshot unless an identical one exists.
func ManifestSyncWorkflow(ctx workflow.Context, input ManifestSyncInput) (SyncResult, error) {
	progress := SyncProgress{Step: "init", Status: "running", Steps: map[string]string{}}
	if err := workflow.SetQueryHandler(ctx, QueryGetSyncProgress, func() (SyncProgress, error) {
		return progress, nil
	}); err != nil {
		return SyncResult{}, err
	}

	attempts := input.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    int32(attempts),
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	step := func(name string, err error) error {
		if err != nil {
			progress.Steps[name] = "failed"
			progress.Status = "failed"
			return err
		}
		progress.Steps[name] = "done"
		return nil
	}

	progress.Step = "fetch"
	var fetched activities.FetchManifestOutput
	err := workflow.ExecuteActivity(ctx, "FetchManifestActivity", activities.FetchManifestInput{Location: input.ManifestURL}).Get(ctx, &fetched)
	if err := step("fetch", err); err != nil {
		return SyncResult{}, err
	}

	progress.Step = "audit"
	var report models.AuditReport
	err = workflow.ExecuteActivity(ctx, "AuditManifestActivity", activities.AuditManifestInput{Manifest: fetched.Manifest}).Get(ctx, &report)
	if err := step("audit", err); err != nil {
		return SyncResult{}, err
	}

	progress.Step = "store"
	var stored activities.StoreSnapshotOutput
	err = workflow.ExecuteActivity(ctx, "StoreSnapshotActivity", activities.StoreSnapshotInput{
		Manifest:    fetched.Manifest,
		ContentHash: fetched.ContentHash,
		Source:      fetched.Source,
	}).Get(ctx, &stored)
	if err := step("store", err); err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{
		Status:     SyncStatusStored,
		SnapshotID: stored.SnapshotID,
		Documents:  fetched.Manifest.Len(),
		Unmapped:   report.Unmapped,
		Missing:    report.Missing,
	}
	if stored.Unchanged {
		result.Status = SyncStatusUnchanged
	}
	progress.Step = "done"
	progress.Status = result.Status
	workflow.GetLogger(ctx).Info("manifest sync finished", "status", result.Status, "documents", result.Documents, "unmapped", result.Unmapped, "missing", result.Missing)
	return result, nil
}
