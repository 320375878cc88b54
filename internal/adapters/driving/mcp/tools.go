package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one shelved document.
type DocumentOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	MIMEType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	PageCount    int    `json:"page_count,omitempty"`
	SummaryState string `json:"summary_state"`
	Summary      string `json:"summary,omitempty"`
	Previewable  bool   `json:"previewable"`
	AddedAt      string `json:"added_at,omitempty"`
}

// DocumentInput identifies a document.
type DocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document"`
}

// SummarizeOutput is the output schema for the summarize_document tool.
type SummarizeOutput struct {
	DocumentID   string `json:"document_id"`
	SummaryState string `json:"summary_state"`
	Summary      string `json:"summary"`
}

// RenderInput is the input schema for the render_document tool.
type RenderInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document"`
	Mode       string `json:"mode,omitempty" jsonschema:"preview (default) or summary"`
}

// RenderOutput is the output schema for the render_document tool.
type RenderOutput struct {
	Strategy     string `json:"strategy"`
	Title        string `json:"title"`
	Body         string `json:"body,omitempty"`
	Notice       string `json:"notice,omitempty"`
	Location     string `json:"location,omitempty"`
	DownloadName string `json:"download_name,omitempty"`
	PageCount    int    `json:"page_count,omitempty"`
	SummaryState string `json:"summary_state,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RemoveOutput is the output schema for the remove_document tool.
type RemoveOutput struct {
	DocumentID string `json:"document_id"`
	Removed    bool   `json:"removed"`
}

// StatusInput is the input schema for the shelf_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the shelf_status tool.
type StatusOutput struct {
	Documents        int             `json:"documents"`
	SummariesPending int             `json:"summaries_pending"`
	SummariesEnabled bool            `json:"summaries_enabled"`
	Warnings         []WarningOutput `json:"warnings"`
}

// WarningOutput is a recent warning.
type WarningOutput struct {
	At      string `json:"at"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents on the shelf, in the order they were added",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Generate an AI summary of a document and wait for the result",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_document",
		Description: "Render a document as a preview or show its summary",
	}, s.handleRender)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document from the shelf",
	}, s.handleRemove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "shelf_status",
		Description: "Report shelf size, pending summaries and recent warnings such as unsaved sessions",
	}, s.handleStatus)
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ports.Registry.List()

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = toDocumentOutput(docs[i])
	}

	return nil, output, nil
}

// handleSummarize handles the summarize_document tool invocation.
func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	if s.ports.Summary == nil {
		return nil, SummarizeOutput{}, domain.ErrLLMUnavailable
	}

	doc, err := s.ports.Summary.Summarise(ctx, input.DocumentID)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	return nil, SummarizeOutput{
		DocumentID:   doc.ID,
		SummaryState: doc.SummaryState.String(),
		Summary:      doc.Summary,
	}, nil
}

// handleRender handles the render_document tool invocation.
func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	mode := domain.ViewMode(input.Mode)
	if mode == "" {
		mode = domain.ViewPreview
	}

	r, err := s.ports.Render.Render(ctx, input.DocumentID, mode)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	output := RenderOutput{
		Strategy:     r.Strategy.String(),
		Title:        r.Title,
		Body:         r.Body,
		Notice:       r.Notice,
		Location:     r.Handle.Location,
		DownloadName: r.DownloadName,
		PageCount:    r.PageCount,
		SummaryState: string(r.SummaryState),
	}
	if err := r.Err(); err != nil {
		output.Error = err.Error()
	}
	return nil, output, nil
}

// handleRemove handles the remove_document tool invocation.
func (s *Server) handleRemove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, RemoveOutput, error) {
	output := RemoveOutput{DocumentID: input.DocumentID}

	if _, err := s.ports.Registry.Get(input.DocumentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, output, nil
		}
		return nil, output, err
	}

	if err := s.ports.Registry.Remove(ctx, input.DocumentID); err != nil {
		return nil, output, err
	}
	output.Removed = true
	return nil, output, nil
}

// handleStatus handles the shelf_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	docs := s.ports.Registry.List()

	output := StatusOutput{
		Documents:        len(docs),
		SummariesEnabled: s.ports.Summary != nil,
		Warnings:         []WarningOutput{},
	}
	for i := range docs {
		if docs[i].SummaryState == domain.SummaryInFlight {
			output.SummariesPending++
		}
	}
	for _, w := range logger.RecentWarnings() {
		output.Warnings = append(output.Warnings, WarningOutput{
			At:      w.At.UTC().Format(time.RFC3339),
			Message: w.Message,
		})
	}

	return nil, output, nil
}

func toDocumentOutput(doc domain.Document) DocumentOutput {
	out := DocumentOutput{
		ID:           doc.ID,
		Name:         doc.Name,
		Kind:         doc.Kind.String(),
		MIMEType:     doc.MIMEType,
		SizeBytes:    doc.SizeBytes,
		PageCount:    doc.PageCount,
		SummaryState: doc.SummaryState.String(),
		Summary:      doc.Summary,
		Previewable:  doc.Rehydrated() || doc.Content != nil,
	}
	if !doc.AddedAt.IsZero() {
		out.AddedAt = doc.AddedAt.UTC().Format(time.RFC3339)
	}
	return out
}
