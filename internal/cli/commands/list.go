package commands

import (
	"github.com/spf13/cobra"
	"paratest/internal/config"
	"paratest/internal/domain"
	"paratest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	loader    suiteLoader
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	loader suiteLoader,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		loader:    loader,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	files, err := lc.loader.Discover()
	if err != nil {
		return err
	}

	var suites []domain.Suite
	if lc.config.Flags.TestCases {
		suites, err = lc.loader.LoadFiles(cmd.Context(), files)
		if err != nil {
			return err
		}
	}

	lc.formatter.PrintTestList(files, suites, lc.config.Flags.TestCases)
	return nil
}
