package driven

import "context"

// MarkdownRenderer converts Markdown source to safe display markup.
type MarkdownRenderer interface {
	// Render returns sanitised HTML for the given Markdown text.
	Render(ctx context.Context, markdown string) (string, error)
}

// PDFInspector reads structural information from PDF bytes.
// It is optional; without it page counts stay unknown.
type PDFInspector interface {
	// PageCount returns the number of pages in the PDF.
	PageCount(ctx context.Context, data []byte) (int, error)
}
