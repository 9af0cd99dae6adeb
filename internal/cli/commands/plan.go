package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"paratest/internal/config"
	"paratest/internal/execution"
	"paratest/internal/storage"
	"paratest/internal/ui"
)

// PlanCommand handles the plan command
type PlanCommand struct {
	config    *config.Config
	loader    suiteLoader
	scheduler execution.Scheduler
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(
	cfg *config.Config,
	loader suiteLoader,
	scheduler execution.Scheduler,
	st storage.Storage,
	formatter *ui.Formatter,
) *PlanCommand {
	return &PlanCommand{
		config:    cfg,
		loader:    loader,
		scheduler: scheduler,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (pc *PlanCommand) Execute(cmd *cobra.Command, args []string) error {
	suites, err := pc.loader.Load(cmd.Context())
	if err != nil {
		return err
	}

	pc.formatter.PrintPlan(suites)

	// Preview only: the worker pool pulls batches from a shared queue.
	distribution := pc.scheduler.Schedule(execution.Jobs(suites), pc.config.Processors)
	loads := make([]ui.WorkerLoad, len(distribution))
	for i, jobs := range distribution {
		loads[i].Batches = len(jobs)
		for _, j := range jobs {
			loads[i].Units += len(j.Units)
		}
	}
	pc.formatter.PrintDistribution(loads)

	if pc.config.Flags.Output == "" {
		return nil
	}
	plan, err := pc.storage.Save(suites)
	if err != nil {
		return err
	}
	color.Green("\nSaved plan %s to %s", plan.ID, pc.config.GetPlanPath())
	return nil
}
