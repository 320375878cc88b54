package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/adapters/driving/dropfolder"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/logger"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add files to the shelf",
	Long: `Adds one or more files to the shelf, in the order given.

Files that cannot be read are reported and skipped; the rest are added
as one batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

// addMIMEType overrides the media type for every file in the batch.
var addMIMEType string

func init() {
	addCmd.Flags().StringVar(&addMIMEType, "mime-type", "", "Declared media type for all files")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	files := make([]domain.IncomingFile, 0, len(args))
	for _, path := range args {
		file, err := dropfolder.LoadFile(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		file.MIMEType = addMIMEType
		files = append(files, file)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no readable files", domain.ErrInvalidInput)
	}

	docs, err := registry.Ingest(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	p := paletteFor(cmd.OutOrStdout())
	for i := range docs {
		cmd.Printf("Added %s %s (%s)\n", p.muted.Render(docs[i].ID), docs[i].Name, docs[i].Kind.Description())
	}
	if skipped := len(args) - len(docs); skipped > 0 {
		cmd.Printf("%d file(s) skipped\n", skipped)
	}
	return nil
}
