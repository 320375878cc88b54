package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docshelf/internal/adapters/driven/markdown"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/resource"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage/memory"
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

// testShelf holds the services installed for one test.
type testShelf struct {
	registry *services.Registry
	sessions *memory.SessionStore
	config   *memory.ConfigStore
	actions  *services.ActionService
	opened   []string
}

// setupTestServices installs real services over in-memory adapters and
// resets command flags. Pass a nil summarizer to leave summaries unconfigured.
func setupTestServices(t *testing.T, summarizer *stubSummarizer) *testShelf {
	t.Helper()

	shelf := &testShelf{
		sessions: memory.NewSessionStore(domain.DefaultSessionMaxBytes),
		config:   memory.NewConfigStore(),
	}
	shelf.registry = services.NewRegistry(resource.NewMemoryProvider(), shelf.sessions, nil)
	services.NewPersister(shelf.sessions).Attach(shelf.registry)

	shelf.actions = services.NewActionService(shelf.registry, t.TempDir())
	shelf.actions.Opener = func(path string) error {
		shelf.opened = append(shelf.opened, path)
		return nil
	}

	svc := &Services{
		Registry: shelf.registry,
		Render:   services.NewRenderService(shelf.registry, markdown.NewRenderer()),
		Actions:  shelf.actions,
		Settings: services.NewSettingsService(shelf.config, nil),
		Restore:  domain.RestoreResult{FirstRun: true},
	}
	if summarizer != nil {
		svc.Summary = services.NewSummaryService(shelf.registry, summarizer)
	}

	originalBootstrap := bootstrap
	bootstrap = nil
	setServices(svc)
	resetFlags()

	t.Cleanup(func() {
		bootstrap = originalBootstrap
		setServices(&Services{})
		resetFlags()
	})
	return shelf
}

func resetFlags() {
	addMIMEType = ""
	showMode = string(domain.ViewPreview)
	showOpen = false
	exportForce = false
	llmProvider, llmModel, llmBaseURL, llmAPIKey = "", "", "", ""
	llmNoCheck = false
	sessionMaxBytes = 0
	summaryRate = 0
}

func (s *testShelf) ingest(t *testing.T, files ...domain.IncomingFile) []domain.Document {
	t.Helper()
	docs, err := s.registry.Ingest(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, docs, len(files))
	return docs
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
