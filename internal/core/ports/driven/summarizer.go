package driven

import "context"

// Summarizer is the remote summarisation capability.
type Summarizer interface {
	// Summarize returns a summary of content. name is the document's
	// filename, passed for context.
	Summarize(ctx context.Context, name, content string) (string, error)
}
