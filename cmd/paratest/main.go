package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"paratest/internal/cli"
	"paratest/internal/cli/commands"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "paratest",
		Short: "Dependency-aware parallel PHPUnit runner",
		Long: `Discover PHPUnit tests, resolve @depends and @dataProvider annotations and split
the resulting test units into batches that run in parallel worker processes.`,
		Version:       version,
		SilenceErrors: true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Register all commands; they are wired once configuration is loaded
	commands.Register(rootCmd, &flags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
