package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tracker/internal/cli"
	"github.com/example/tracker/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "tracker",
		Short:   "tracker - autonomous task scheduler",
		Version: version.String(),
		Long: `tracker is a dependency-aware work queue for an autonomous agent.
Tasks carry prerequisites and ROI scores; completing a task unblocks its
dependents, and sensitive transitions wait behind an approval gate.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.TaskCmd())
	rootCmd.AddCommand(cli.GoalCmd())
	rootCmd.AddCommand(cli.ApprovalCmd())
	rootCmd.AddCommand(cli.JournalCmd())
	rootCmd.AddCommand(cli.NotifyCmd())
	rootCmd.AddCommand(cli.IntakeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
