// Package mcp provides an MCP (Model Context Protocol) server adapter for docshelf.
// It lets AI assistants list, render, summarise and remove shelved documents.
package mcp

import "errors"

// ErrMissingRegistry is returned when the document registry is not provided.
var ErrMissingRegistry = errors.New("mcp: document registry is required")

// ErrMissingRenderService is returned when the render service is not provided.
var ErrMissingRenderService = errors.New("mcp: render service is required")
