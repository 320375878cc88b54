package driving

import (
	"context"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// SummaryService drives the per-document summarisation lifecycle.
type SummaryService interface {
	// Request moves the document to in-flight and starts the remote call.
	// The returned channel closes when the call resolves. A request for a
	// document already in flight returns the pending channel.
	Request(ctx context.Context, id string) (<-chan struct{}, error)

	// Summarise requests a summary and waits for it to resolve.
	Summarise(ctx context.Context, id string) (domain.Document, error)
}
