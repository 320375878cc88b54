package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/adapters/driving/dropfolder"
	"github.com/custodia-labs/docshelf/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Add files dropped into a directory",
	Long: `Watches a directory and adds every new file to the shelf once it has
finished being written. Existing and hidden files are ignored.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchSettle is the quiet period before a new file is added.
var watchSettle time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", dropfolder.DefaultSettle, "Wait for writes to stop for this long")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := paletteFor(cmd.OutOrStdout())

	w := dropfolder.New(args[0], registry)
	w.Settle = watchSettle
	w.OnIngest = func(docs []domain.Document) {
		for i := range docs {
			cmd.Printf("Added %s %s (%s)\n", p.muted.Render(docs[i].ID), docs[i].Name, docs[i].Kind.Description())
		}
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", args[0])
	return w.Run(ctx)
}
