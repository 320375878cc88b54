package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

var summarizeCmd = &cobra.Command{
	Use:     "summarize <doc-id>...",
	Aliases: []string{"summarise"},
	Short:   "Generate AI summaries",
	Long: `Generates a summary for each document and waits for the results.
Summarising a document again replaces its previous summary.

Requires an LLM provider. Run 'docshelf settings llm' to configure one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := requireRegistry(); err != nil {
		return err
	}
	if summaryService == nil {
		return fmt.Errorf("%w: run 'docshelf settings llm' to configure a provider", domain.ErrLLMUnavailable)
	}

	ctx := cmd.Context()

	// Start every request first so the summaries run concurrently.
	pending := make([]<-chan struct{}, len(args))
	for i, id := range args {
		done, err := summaryService.Request(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return fmt.Errorf("%w: run 'docshelf settings llm' to configure a provider", err)
			}
			cmd.Printf("Cannot summarise %s: %v\n", id, err)
			continue
		}
		pending[i] = done
	}

	p := paletteFor(cmd.OutOrStdout())
	failed := 0
	for i, id := range args {
		if pending[i] == nil {
			failed++
			continue
		}
		select {
		case <-pending[i]:
		case <-ctx.Done():
			return ctx.Err()
		}

		doc, err := registry.Get(id)
		if err != nil {
			cmd.Printf("%s was removed while summarising\n", id)
			continue
		}
		if doc.SummaryState == domain.SummaryFailed {
			failed++
		}
		cmd.Printf("%s %s\n", p.title.Render(doc.Name), p.state(doc.SummaryState))
		cmd.Println(doc.Summary)
		cmd.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d summaries failed", failed, len(args))
	}
	return nil
}
