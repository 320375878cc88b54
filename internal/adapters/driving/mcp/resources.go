package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docshelf/internal/codec"
	"github.com/custodia-labs/docshelf/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docshelf resources.
	uriScheme = "docshelf://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents on the shelf",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Original content of a specific document",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource returns the working set as JSON.
func (s *Server) handleDocumentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docs := s.ports.Registry.List()

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = toDocumentOutput(docs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns a document's original content,
// as text when it was stored as text and as a blob otherwise.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Registry.Get(docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}

	contents := &mcp.ResourceContents{
		URI:      req.Params.URI,
		MIMEType: doc.MIMEType,
	}

	if text, ok := codec.Text(doc.Content); ok {
		contents.Text = text
	} else {
		data, err := s.ports.Registry.Bytes(ctx, docID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, mcp.ResourceNotFoundError(req.Params.URI)
			}
			return nil, fmt.Errorf("reading document content: %w", err)
		}
		contents.Blob = data
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{contents},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like docshelf://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
