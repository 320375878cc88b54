package mcp

import (
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Registry holds the working set.
	Registry driving.DocumentRegistry

	// Render applies rendering strategies.
	Render driving.RenderService

	// Summary runs summarisation. Optional; without it summarize_document
	// reports that no LLM is configured.
	Summary driving.SummaryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	if p.Render == nil {
		return ErrMissingRenderService
	}
	return nil
}
