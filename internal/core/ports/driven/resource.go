package driven

import (
	"context"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// ResourceProvider creates and releases process-local resource handles.
// Handles are not reclaimed automatically; every Create must be paired
// with a Release.
type ResourceProvider interface {
	// Create stores data and returns a handle a viewer can resolve.
	Create(ctx context.Context, name, mimeType string, data []byte) (domain.ResourceHandle, error)

	// Open returns the bytes behind a live handle.
	Open(ctx context.Context, handle domain.ResourceHandle) ([]byte, error)

	// Release frees the resource. Releasing an unknown handle is a no-op.
	Release(ctx context.Context, handle domain.ResourceHandle) error
}
