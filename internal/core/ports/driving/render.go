package driving

import (
	"context"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// RenderService renders a document for a view mode.
type RenderService interface {
	// Render applies the dispatched strategy to the document.
	Render(ctx context.Context, id string, mode domain.ViewMode) (domain.Rendering, error)
}
