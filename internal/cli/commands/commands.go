package commands

import (
	"context"
	"os"

	"paratest/internal/cli"
	"paratest/internal/config"
	"paratest/internal/database"
	"paratest/internal/discovery"
	"paratest/internal/domain"
	"paratest/internal/execution"
	"paratest/internal/logging"
	"paratest/internal/parser"
	"paratest/internal/storage"
	"paratest/internal/suite"
	"paratest/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run  *RunCommand
	List *ListCommand
	Plan *PlanCommand
	View *ViewCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	loader := suite.NewLoader(cfg, scanner, discovery.NewTreeSitterParser(), suite.NewPHPDataProvider(cfg))
	runner := execution.NewRunner(cfg)
	scheduler := execution.NewRoundRobinScheduler()
	executor := execution.NewWorkerPool(cfg, runner, parser.NewPHPUnitParser())
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	dbManager := database.NewDatabaseManager(cfg)
	planViewer := ui.NewPlanViewer(cfg)

	return &Commands{
		Run:  NewRunCommand(cfg, loader, executor, jsonStorage, formatter, dbManager),
		List: NewListCommand(cfg, loader, formatter),
		Plan: NewPlanCommand(cfg, loader, scheduler, jsonStorage, formatter),
		View: NewViewCommand(cfg, loader, jsonStorage, planViewer),
	}
}

// suiteLoader builds the batch plan for the configured project
type suiteLoader interface {
	Discover() ([]string, error)
	Load(ctx context.Context) ([]domain.Suite, error)
	LoadFiles(ctx context.Context, files []string) ([]domain.Suite, error)
}

// loadPlan reads the saved plan when --plan is set, otherwise builds one
func loadPlan(ctx context.Context, cfg *config.Config, loader suiteLoader, st storage.Storage) (*domain.Plan, error) {
	if cfg.Flags.PlanFile != "" {
		return st.Load()
	}
	suites, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Plan{MaxBatch: cfg.EffectiveMaxBatchSize(), Suites: suites}, nil
}

// Register registers all commands with cobra. Configuration is loaded once
// flags are parsed and the commands are wired against it.
func Register(rootCmd *cobra.Command, flags *cli.Flags) *Commands {
	cmds := &Commands{}

	rootCmd.PersistentFlags().StringVar(&flags.ProjectPath, "project", config.DefaultProjectPath, "Path to the PHP project root")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Project configuration file (default: <project>/"+config.DefaultProjectFile+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.Init(flags.LogLevel(), os.Stderr)

		cfg, err := config.Load(flags.ProjectPath, flags.ConfigFile, flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cmds = *NewCommands(cfg)
		return nil
	}

	addSelectionFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Comma-separated paths where test detection should start")
		cmd.Flags().StringVar(&flags.FileFilter, "file-filter", "", "Filter test files by name (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
		cmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter test units by regular expression on 'Class::unit'")
		cmd.Flags().StringSliceVarP(&flags.Groups, "group", "g", nil, "Only include tests in these groups")
		cmd.Flags().StringSliceVar(&flags.ExcludeGroups, "exclude-group", nil, "Exclude tests in these groups")
		cmd.Flags().BoolVar(&flags.Functional, "functional", false, "Batch units of a class together and expand data providers")
		cmd.Flags().IntVar(&flags.MaxBatchSize, "max-batch-size", 0, "Maximum units per batch in functional mode")
		cmd.Flags().StringVar(&flags.DependencyPolicy, "dependency-policy", "", "Handling of unresolved @depends: drop, warn or fail")
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run PHPUnit tests in parallel",
		Long:  "Discover PHPUnit tests, batch them and execute the batches using parallel workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Run.Execute(cmd, args)
		},
		SilenceUsage: true,
	}
	addSelectionFlags(runCmd)
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of processors to use")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop scheduling batches after the first failure")
	runCmd.Flags().BoolVar(&flags.CreateDatabases, "create-databases", false, "Create missing per-worker test databases before running")
	runCmd.Flags().StringVar(&flags.PlanFile, "plan", "", "Run a plan saved with 'plan --output' instead of discovering tests")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Scan and list all PHPUnit test files without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.List.Execute(cmd, args)
		},
	}
	addSelectionFlags(listCmd)
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List the selected test units of each file")
	rootCmd.AddCommand(listCmd)

	// Plan command
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the batch plan",
		Long:  "Build the batch plan and show a round-robin estimate of its spread across workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.Plan.Execute(cmd, args)
		},
	}
	addSelectionFlags(planCmd)
	planCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of processors to preview the distribution for")
	planCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Save the plan as JSON to this file")
	rootCmd.AddCommand(planCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the batch plan interactively",
		Long:  "Display the batch plan, or a saved plan, in an interactive viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmds.View.Execute(cmd, args)
		},
	}
	addSelectionFlags(viewCmd)
	viewCmd.Flags().StringVar(&flags.PlanFile, "plan", "", "View a plan saved with 'plan --output'")
	rootCmd.AddCommand(viewCmd)

	return cmds
}
