package commands

import (
	"github.com/spf13/cobra"

	"paratest/internal/config"
	"paratest/internal/storage"
	"paratest/internal/ui"
)

// ViewCommand handles the view command
type ViewCommand struct {
	config  *config.Config
	loader  suiteLoader
	storage storage.Storage
	viewer  ui.Viewer
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(cfg *config.Config, loader suiteLoader, st storage.Storage, viewer ui.Viewer) *ViewCommand {
	return &ViewCommand{
		config:  cfg,
		loader:  loader,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(cmd.Context(), vc.config, vc.loader, vc.storage)
	if err != nil {
		return err
	}
	return vc.viewer.View(plan)
}
