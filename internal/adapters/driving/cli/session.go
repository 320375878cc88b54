package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/logger"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the saved session",
	RunE:  runSessionStatus,
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what was restored at startup",
	RunE:  runSessionStatus,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document and delete the saved session",
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionStatus(cmd *cobra.Command, _ []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	if restoreResult.FirstRun {
		cmd.Println("No saved session was restored.")
	} else {
		cmd.Printf("Restored %d document(s)", restoreResult.Restored)
		if restoreResult.Unresolved > 0 {
			cmd.Printf(", %d without preview", restoreResult.Unresolved)
		}
		cmd.Println()
	}
	cmd.Printf("Documents on the shelf: %d\n", len(registry.List()))

	if warnings := logger.RecentWarnings(); len(warnings) > 0 {
		cmd.Println()
		cmd.Println("Recent warnings:")
		for _, w := range warnings {
			cmd.Printf("  %s  %s\n", w.At.Format("15:04:05"), w.Message)
		}
	}
	return nil
}

func runSessionClear(cmd *cobra.Command, _ []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	n := len(registry.List())
	if err := registry.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	cmd.Printf("Cleared %d document(s).\n", n)
	return nil
}
