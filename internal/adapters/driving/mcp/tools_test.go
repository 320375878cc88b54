package mcp

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/logger"
)

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("empty shelf", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Documents)
	})

	t.Run("lists documents in order", func(t *testing.T) {
		server := newTestServer(t, nil)
		server.ingest(t,
			domain.IncomingFile{Name: "b.md", Data: []byte("# B")},
			domain.IncomingFile{Name: "a.txt", Data: []byte("a")},
		)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "b.md", output.Documents[0].Name)
		assert.Equal(t, "markdown", output.Documents[0].Kind)
		assert.Equal(t, "idle", output.Documents[0].SummaryState)
		assert.True(t, output.Documents[0].Previewable)
		assert.NotEmpty(t, output.Documents[0].AddedAt)
		assert.Equal(t, "a.txt", output.Documents[1].Name)
	})
}

func TestServer_handleSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		server := newTestServer(t, &stubSummarizer{reply: "Short summary."})
		docs := server.ingest(t, domain.IncomingFile{Name: "report.md", MIMEType: "text/markdown", Data: []byte("# Title\nBody")})

		_, output, err := server.handleSummarize(ctx, nil, DocumentInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.Equal(t, docs[0].ID, output.DocumentID)
		assert.Equal(t, "done", output.SummaryState)
		assert.Equal(t, "Short summary.", output.Summary)
	})

	t.Run("remote failure yields fallback", func(t *testing.T) {
		server := newTestServer(t, &stubSummarizer{err: errors.New("boom")})
		docs := server.ingest(t, domain.IncomingFile{Name: "a.txt", Data: []byte("a")})

		_, output, err := server.handleSummarize(ctx, nil, DocumentInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.Equal(t, "failed", output.SummaryState)
		assert.Equal(t, domain.SummaryFallback, output.Summary)
	})

	t.Run("no summary service", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, _, err := server.handleSummarize(ctx, nil, DocumentInput{DocumentID: "x"})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("unknown document", func(t *testing.T) {
		server := newTestServer(t, &stubSummarizer{reply: "x"})

		_, _, err := server.handleSummarize(ctx, nil, DocumentInput{DocumentID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleRender(t *testing.T) {
	ctx := context.Background()

	t.Run("renders text preview", func(t *testing.T) {
		server := newTestServer(t, nil)
		docs := server.ingest(t, domain.IncomingFile{Name: "notes.txt", Data: []byte("plain words")})

		_, output, err := server.handleRender(ctx, nil, RenderInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.Equal(t, "text", output.Strategy)
		assert.Equal(t, "notes.txt", output.Title)
		assert.Equal(t, "plain words", output.Body)
	})

	t.Run("summary mode without summary", func(t *testing.T) {
		server := newTestServer(t, nil)
		docs := server.ingest(t, domain.IncomingFile{Name: "notes.txt", Data: []byte("plain words")})

		_, output, err := server.handleRender(ctx, nil, RenderInput{DocumentID: docs[0].ID, Mode: "summary"})

		require.NoError(t, err)
		assert.Equal(t, "summary", output.Strategy)
		assert.Equal(t, "idle", output.SummaryState)
		assert.NotEmpty(t, output.Notice)
	})

	t.Run("presentation offers download location", func(t *testing.T) {
		server := newTestServer(t, nil)
		docs := server.ingest(t, domain.IncomingFile{Name: "deck.pptx", Data: []byte{0x50, 0x4b, 0x03, 0x04}})

		_, output, err := server.handleRender(ctx, nil, RenderInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.Equal(t, "presentation_download", output.Strategy)
		assert.Equal(t, "deck.pptx", output.DownloadName)
		assert.Contains(t, output.Location, "mem://")
		assert.Empty(t, output.Error)
	})

	t.Run("unsupported kind reports error detail", func(t *testing.T) {
		server := newTestServer(t, nil)
		docs := server.ingest(t, domain.IncomingFile{Name: "photo.png", MIMEType: "image/png", Data: []byte{0x89, 0x50}})

		_, output, err := server.handleRender(ctx, nil, RenderInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.Equal(t, "unsupported", output.Strategy)
		assert.Equal(t, "unsupported type: photo.png", output.Error)
		assert.NotEmpty(t, output.Notice)
	})

	t.Run("defaults to preview mode", func(t *testing.T) {
		render := &mockRenderService{rendering: domain.Rendering{Strategy: domain.StrategyText}}
		server, err := NewServer(&Ports{Registry: newTestServer(t, nil).registry, Render: render})
		require.NoError(t, err)

		_, _, err = server.handleRender(ctx, nil, RenderInput{DocumentID: "x"})

		require.NoError(t, err)
		assert.Equal(t, domain.ViewPreview, render.lastMode)
	})

	t.Run("unknown document", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, _, err := server.handleRender(ctx, nil, RenderInput{DocumentID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes document", func(t *testing.T) {
		server := newTestServer(t, nil)
		docs := server.ingest(t,
			domain.IncomingFile{Name: "a.txt", Data: []byte("a")},
			domain.IncomingFile{Name: "b.txt", Data: []byte("b")},
		)

		_, output, err := server.handleRemove(ctx, nil, DocumentInput{DocumentID: docs[0].ID})

		require.NoError(t, err)
		assert.True(t, output.Removed)
		remaining := server.registry.List()
		require.Len(t, remaining, 1)
		assert.Equal(t, docs[1].ID, remaining[0].ID)
		assert.Equal(t, 1, server.resources.Live())
	})

	t.Run("unknown document is a no-op", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, output, err := server.handleRemove(ctx, nil, DocumentInput{DocumentID: "missing"})

		require.NoError(t, err)
		assert.False(t, output.Removed)
	})
}

func TestServer_handleStatus(t *testing.T) {
	ctx := context.Background()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.ClearWarnings()
	})

	t.Run("without summarizer", func(t *testing.T) {
		logger.ClearWarnings()
		server := newTestServer(t, nil)
		server.ingest(t, domain.IncomingFile{Name: "a.txt", Data: []byte("a")})

		_, output, err := server.handleStatus(ctx, nil, StatusInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Documents)
		assert.Equal(t, 0, output.SummariesPending)
		assert.False(t, output.SummariesEnabled)
		assert.Empty(t, output.Warnings)
	})

	t.Run("reports warnings", func(t *testing.T) {
		logger.ClearWarnings()
		server := newTestServer(t, &stubSummarizer{reply: "ok"})
		logger.Warn("Session not saved: %s", "quota exceeded")

		_, output, err := server.handleStatus(ctx, nil, StatusInput{})

		require.NoError(t, err)
		assert.True(t, output.SummariesEnabled)
		require.Len(t, output.Warnings, 1)
		assert.Equal(t, "Session not saved: quota exceeded", output.Warnings[0].Message)
		assert.NotEmpty(t, output.Warnings[0].At)
	})

	t.Run("counts pending summaries", func(t *testing.T) {
		logger.ClearWarnings()
		server := newTestServer(t, nil)
		docs := server.ingest(t,
			domain.IncomingFile{Name: "a.txt", Data: []byte("a")},
			domain.IncomingFile{Name: "b.txt", Data: []byte("b")},
		)
		_, err := server.registry.BeginSummary(docs[1].ID)
		require.NoError(t, err)

		_, output, err := server.handleStatus(ctx, nil, StatusInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.SummariesPending)
	})
}
