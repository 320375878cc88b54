package driven

import (
	"context"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// SessionStore persists the working set across process restarts.
// Resource handles are never persisted.
//
// Several processes may share one store. Each SessionStore value tracks
// the revision of the entry it last loaded or saved, and Save only
// succeeds while that revision is still current.
type SessionStore interface {
	// Save replaces the saved session with docs.
	// Returns domain.ErrQuotaExceeded without touching the previous
	// session when the serialised payload is too large, and
	// domain.ErrSessionConflict when another writer saved in between.
	Save(ctx context.Context, docs []domain.Document) error

	// Load returns the saved documents in their saved order.
	// Returns domain.ErrNoSession when nothing was ever saved, and an error
	// wrapping domain.ErrRestoreParse when the saved payload is unreadable.
	Load(ctx context.Context) ([]domain.Document, error)

	// Clear removes the saved session.
	Clear(ctx context.Context) error
}
