package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/adapters/driven/resource"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/services"
)

// stubSummarizer returns a fixed reply.
type stubSummarizer struct {
	reply string
	err   error
}

func (s *stubSummarizer) Summarize(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

// mockRenderService returns a fixed rendering.
type mockRenderService struct {
	rendering domain.Rendering
	err       error
	lastMode  domain.ViewMode
}

func (m *mockRenderService) Render(_ context.Context, _ string, mode domain.ViewMode) (domain.Rendering, error) {
	m.lastMode = mode
	return m.rendering, m.err
}

type testServer struct {
	*Server
	registry  *services.Registry
	resources *resource.MemoryProvider
}

// newTestServer wires real services over in-memory adapters.
func newTestServer(t *testing.T, summarizer *stubSummarizer) *testServer {
	t.Helper()

	resources := resource.NewMemoryProvider()
	registry := services.NewRegistry(resources, nil, nil)

	ports := &Ports{
		Registry: registry,
		Render:   services.NewRenderService(registry, nil),
	}
	if summarizer != nil {
		ports.Summary = services.NewSummaryService(registry, summarizer)
	}

	server, err := NewServer(ports)
	require.NoError(t, err)

	return &testServer{Server: server, registry: registry, resources: resources}
}

func (s *testServer) ingest(t *testing.T, files ...domain.IncomingFile) []domain.Document {
	t.Helper()
	docs, err := s.registry.Ingest(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, docs, len(files))
	return docs
}
