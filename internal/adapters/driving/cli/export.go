package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <doc-id> <dest>",
	Short: "Write a document's original bytes to a file",
	Long: `Writes the original file back to disk. When dest is a directory the
document's name is used. Existing files are kept unless --force is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

// exportForce allows overwriting an existing file.
var exportForce bool

func init() {
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "Overwrite an existing file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if actionService == nil {
		return errors.New("document actions not configured")
	}

	path, err := actionService.Export(cmd.Context(), args[0], args[1], exportForce)
	if err != nil {
		return fmt.Errorf("failed to export document: %w", err)
	}
	cmd.Printf("Exported to %s\n", path)
	return nil
}
