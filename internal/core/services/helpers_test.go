package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/docshelf/internal/adapters/driven/resource"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// stubSummarizer returns a fixed reply and counts calls.
// When gate is set, each call blocks until gate is closed.
type stubSummarizer struct {
	reply string
	err   error
	gate  chan struct{}

	calls    atomic.Int32
	mu       sync.Mutex
	lastName string
	lastText string
}

func (s *stubSummarizer) Summarize(ctx context.Context, name, content string) (string, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.lastName, s.lastText = name, content
	s.mu.Unlock()

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubSummarizer) input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastText
}

// failingResources fails to create resources for one file name.
type failingResources struct {
	*resource.MemoryProvider
	failName string
}

func (f *failingResources) Create(ctx context.Context, name, mimeType string, data []byte) (domain.ResourceHandle, error) {
	if name == f.failName {
		return domain.ResourceHandle{}, errors.New("disk full")
	}
	return f.MemoryProvider.Create(ctx, name, mimeType, data)
}

// stubPDF reports a fixed page count.
type stubPDF struct {
	pages int
	err   error
}

func (p stubPDF) PageCount(context.Context, []byte) (int, error) {
	return p.pages, p.err
}

// stubMarkdown wraps its input in a paragraph.
type stubMarkdown struct {
	err error
}

func (m stubMarkdown) Render(_ context.Context, markdown string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "<p>" + markdown + "</p>", nil
}

type testEnv struct {
	resources *resource.MemoryProvider
	store     *memory.SessionStore
	registry  *Registry
}

func newTestEnv() *testEnv {
	resources := resource.NewMemoryProvider()
	store := memory.NewSessionStore(domain.DefaultSessionMaxBytes)
	return &testEnv{
		resources: resources,
		store:     store,
		registry:  NewRegistry(resources, store, stubPDF{pages: 3}),
	}
}

func mdFile(name, body string) domain.IncomingFile {
	return domain.IncomingFile{Name: name, MIMEType: "text/markdown", Data: []byte(body)}
}
