package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

var removeCmd = &cobra.Command{
	Use:     "remove <doc-id>...",
	Aliases: []string{"rm"},
	Short:   "Remove documents from the shelf",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	for _, id := range args {
		doc, err := registry.Get(id)
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("Not on the shelf: %s\n", id)
			continue
		}
		if err != nil {
			return err
		}
		if err := registry.Remove(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove %s: %w", id, err)
		}
		cmd.Printf("Removed %s (%s)\n", doc.Name, id)
	}
	return nil
}
