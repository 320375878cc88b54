package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <doc-id>",
	Short: "Render a document",
	Long: `Renders a document for viewing.

Modes:
  preview - the document itself (default)
  summary - the AI summary and its state

Markdown previews are printed as sanitised HTML. PDFs and presentations
cannot be shown in a terminal; use --open to view them in the default
application.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// Flags for the show command.
var (
	showMode string
	showOpen bool
)

func init() {
	showCmd.Flags().StringVarP(&showMode, "mode", "m", string(domain.ViewPreview), "View mode: preview or summary")
	showCmd.Flags().BoolVar(&showOpen, "open", false, "Open the document in the default application")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if renderService == nil {
		return errors.New("render service not configured")
	}

	mode := domain.ViewMode(showMode)
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q (use preview or summary)", domain.ErrInvalidInput, showMode)
	}

	r, err := renderService.Render(cmd.Context(), args[0], mode)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	p := paletteFor(cmd.OutOrStdout())
	cmd.Println(p.title.Render(r.Title))
	cmd.Println(p.muted.Render(fmt.Sprintf("%s · %s", r.DocumentID, r.Strategy)))
	cmd.Println()

	switch r.Strategy {
	case domain.StrategySummary:
		cmd.Printf("State: %s\n", p.state(r.SummaryState))
	case domain.StrategyPDFViewer:
		if r.PageCount > 0 {
			cmd.Printf("Pages: %d\n", r.PageCount)
		}
	}

	if r.Body != "" {
		cmd.Println(r.Body)
	}
	if r.Notice != "" {
		cmd.Println(p.warn.Render(r.Notice))
	}

	if showOpen {
		return openDocument(cmd, r)
	}
	if r.Strategy == domain.StrategyPDFViewer && !r.Handle.IsZero() {
		cmd.Println(p.muted.Render("Use --open to view it."))
	}
	return nil
}

func openDocument(cmd *cobra.Command, r domain.Rendering) error {
	if actionService == nil {
		return errors.New("document actions not configured")
	}
	path, err := actionService.Open(cmd.Context(), r.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	cmd.Printf("Opened %s\n", path)
	return nil
}
