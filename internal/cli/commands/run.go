package commands

import (
	"errors"
	"fmt"

	"paratest/internal/config"
	"paratest/internal/database"
	"paratest/internal/execution"
	"paratest/internal/storage"
	"paratest/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrBatchesFailed is returned when at least one batch did not pass
var ErrBatchesFailed = errors.New("test batches failed")

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	loader    suiteLoader
	executor  execution.Executor
	storage   storage.Storage
	formatter *ui.Formatter
	databases *database.DatabaseManager
	progress  bool
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	loader suiteLoader,
	executor *execution.WorkerPool,
	st storage.Storage,
	formatter *ui.Formatter,
	databases *database.DatabaseManager,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		loader:    loader,
		executor:  executor,
		storage:   st,
		formatter: formatter,
		databases: databases,
		progress:  true,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	plan, err := loadPlan(ctx, rc.config, rc.loader, rc.storage)
	if err != nil {
		return err
	}

	jobs := execution.Jobs(plan.Suites)
	if len(jobs) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	if rc.config.Flags.CreateDatabases {
		created, err := rc.databases.CheckAndCreateDatabases(ctx, rc.config.Processors)
		if err != nil {
			return fmt.Errorf("database setup failed: %w", err)
		}
		if len(created) > 0 {
			color.Green("Created %d test database(s)", len(created))
		}
	}

	if pool, ok := rc.executor.(*execution.WorkerPool); ok && rc.progress {
		pool.SetProgress(ui.NewProgressBar(len(jobs)))
	}

	results, summary, err := rc.executor.Execute(ctx, jobs, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	rc.formatter.PrintRunSummary(summary, results)

	if summary.FailedBatches > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchesFailed, summary.FailedBatches, summary.TotalBatches)
	}
	if len(results) < len(jobs) {
		return fmt.Errorf("run stopped after %d of %d batches: %w", len(results), len(jobs), ctx.Err())
	}
	return nil
}
