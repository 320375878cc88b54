package domain

import "fmt"

// ViewMode selects between previewing a document and showing its summary.
type ViewMode string

// View modes.
const (
	ViewPreview ViewMode = "preview"
	ViewSummary ViewMode = "summary"
)

// IsValid returns true if the view mode is recognised.
func (m ViewMode) IsValid() bool {
	return m == ViewPreview || m == ViewSummary
}

// Strategy is the rendering strategy chosen for a document and view mode.
type Strategy string

// Rendering strategies.
const (
	StrategySummary              Strategy = "summary"
	StrategyPDFViewer            Strategy = "pdf_viewer"
	StrategyMarkdown             Strategy = "markdown"
	StrategyText                 Strategy = "text"
	StrategyPresentationDownload Strategy = "presentation_download"
	StrategyUnsupported          Strategy = "unsupported"
)

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Rendering is the result of applying a strategy to a document.
type Rendering struct {
	// Strategy is the strategy that produced this rendering.
	Strategy Strategy

	// DocumentID identifies the rendered document.
	DocumentID string

	// Title is the display name.
	Title string

	// Body is the rendered content: sanitised HTML for Markdown, verbatim
	// text for text kinds, the summary for the summary view.
	Body string

	// Handle is set for strategies that hand bytes to a viewer or offer a download.
	Handle ResourceHandle

	// DownloadName is the suggested filename when a download is offered.
	DownloadName string

	// Notice is a user-facing message accompanying or replacing the body.
	Notice string

	// SummaryState is populated for the summary strategy.
	SummaryState SummaryState

	// PageCount is populated for the PDF viewer strategy when known.
	PageCount int
}

// Err returns an error wrapping ErrUnsupportedType when the document could
// not be rendered at all, and nil otherwise.
func (r Rendering) Err() error {
	if r.Strategy != StrategyUnsupported {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, r.Title)
}
