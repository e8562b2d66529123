// Package commands implements the tableview operator CLI actions.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"tableview/internal/assets"
	"tableview/internal/config"
	"tableview/internal/loader"
	"tableview/internal/util"
	"tableview/internal/workflows"

	"github.com/urfave/cli/v2"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

var ErrValidationFailed = errors.New("manifest has documents that need attention")

const syncWorkflowID = "manifest-sync"

// NewApp wires the CLI around a loaded config so flag defaults follow the
// environment.
func NewApp(cfg config.Config) *cli.App {
	pathsFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "paths-file", Usage: "YAML override for the document path table", Value: cfg.PathsFile}
	}
	return &cli.App{
		Name:  "tableview",
		Usage: "inspect and sync the extracted-table manifest",
		Commands: []*cli.Command{
			{
				Name:   "paths",
				Usage:  "print the document path table",
				Flags:  []cli.Flag{pathsFlag()},
				Action: PathsAction,
			},
			{
				Name:  "validate",
				Usage: "load a manifest and audit it against the path table and asset files",
				Flags: []cli.Flag{
					pathsFlag(),
					&cli.StringFlag{Name: "manifest", Aliases: []string{"m"}, Usage: "manifest file or URL", Value: cfg.ManifestFile()},
					&cli.StringFlag{Name: "public-dir", Usage: "asset root; empty skips file checks", Value: cfg.PublicDir},
					&cli.StringFlag{Name: "out", Usage: "write the audit report as JSON"},
					&cli.BoolFlag{Name: "strict", Usage: "exit non-zero when any document needs attention"},
				},
				Action: ValidateAction,
			},
			{
				Name:  "sync",
				Usage: "run the manifest sync workflow and wait for its result",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manifest", Aliases: []string{"m"}, Usage: "manifest file or URL", Value: cfg.ManifestURL},
					&cli.StringFlag{Name: "temporal", Usage: "Temporal host:port", Value: cfg.TemporalAddress},
					&cli.StringFlag{Name: "queue", Usage: "Temporal task queue", Value: cfg.TemporalTaskQueue},
					&cli.IntFlag{Name: "max-attempts", Usage: "activity attempts", Value: cfg.SyncMaxAttempts},
				},
				Action: SyncAction,
			},
		},
	}
}

func PathsAction(c *cli.Context) error {
	table, err := assets.LoadPathTable(c.String("paths-file"))
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.App.Writer, "%-8s %s -> %s\n", assets.Kind(k), k, table[k])
	}
	return nil
}

func ValidateAction(c *cli.Context) error {
	table, err := assets.LoadPathTable(c.String("paths-file"))
	if err != nil {
		return err
	}
	src := loader.SourceFor(c.String("manifest"))
	m, err := src.Fetch(c.Context)
	if err != nil {
		return fmt.Errorf("load %s: %w", src.Name(), err)
	}
	report := assets.Audit(m, table, c.String("public-dir"))

	w := c.App.Writer
	for _, d := range report.Documents {
		status := "ok"
		problems := make([]string, 0, 3)
		if d.Unmapped {
			problems = append(problems, "unmapped")
		}
		if d.Missing {
			problems = append(problems, "missing "+d.Path)
		}
		if len(d.DuplicateTableIDs) > 0 {
			problems = append(problems, "duplicate table ids "+strings.Join(d.DuplicateTableIDs, ","))
		}
		if d.Error != "" {
			problems = append(problems, d.Error)
		}
		if len(problems) > 0 {
			status = strings.Join(problems, "; ")
		}
		fmt.Fprintf(w, "%-8s %-40s %d tables  %s\n", d.Kind, d.Key, d.Tables, status)
	}
	fmt.Fprintf(w, "%d documents, %d unmapped, %d missing\n", len(report.Documents), report.Unmapped, report.Missing)

	if out := c.String("out"); out != "" {
		if err := util.WriteJSONAtomic(out, report); err != nil {
			return err
		}
	}
	if c.Bool("strict") {
		for _, d := range report.Documents {
			if !d.OK() {
				return fmt.Errorf("%w: %s", ErrValidationFailed, d.Key)
			}
		}
	}
	return nil
}

func SyncAction(c *cli.Context) error {
	tc, err := tclient.Dial(tclient.Options{HostPort: c.String("temporal")})
	if err != nil {
		return fmt.Errorf("dial temporal: %w", err)
	}
	defer tc.Close()
	return runSync(c.Context, tc, c.String("queue"), workflows.ManifestSyncInput{
		ManifestURL: c.String("manifest"),
		MaxAttempts: c.Int("max-attempts"),
	}, c.App.Writer)
}

type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options tclient.StartWorkflowOptions, workflow interface{}, args ...interface{}) (tclient.WorkflowRun, error)
}

func runSync(ctx context.Context, tc workflowStarter, queue string, in workflows.ManifestSyncInput, w io.Writer) error {
	we, err := tc.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                                       syncWorkflowID,
		TaskQueue:                                queue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ManifestSyncWorkflow, in)
	if err != nil {
		return fmt.Errorf("start sync: %w", err)
	}
	var result workflows.SyncResult
	if err := we.Get(ctx, &result); err != nil {
		return fmt.Errorf("sync %s failed: %w", we.GetRunID(), err)
	}
	fmt.Fprintf(w, "sync %s: %s snapshot=%s documents=%d unmapped=%d missing=%d\n",
		we.GetRunID(), result.Status, result.SnapshotID, result.Documents, result.Unmapped, result.Missing)
	return nil
}
