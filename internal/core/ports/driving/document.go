package driving

import (
	"context"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// DocumentRegistry is the authoritative, ordered working set.
type DocumentRegistry interface {
	// Ingest encodes and appends a batch of files in input order.
	// The batch becomes visible to observers all at once.
	Ingest(ctx context.Context, files []domain.IncomingFile) ([]domain.Document, error)

	// Remove releases the document's resource and drops it.
	// Removing an unknown id is a no-op.
	Remove(ctx context.Context, id string) error

	// List returns the documents in order.
	List() []domain.Document

	// Get retrieves a document by ID.
	Get(id string) (domain.Document, error)

	// Bytes returns the original bytes of a document.
	Bytes(ctx context.Context, id string) ([]byte, error)

	// Clear empties the working set and deletes the saved session.
	Clear(ctx context.Context) error

	// Restore loads the saved session and rehydrates it without saving.
	Restore(ctx context.Context) (domain.RestoreResult, error)
}
