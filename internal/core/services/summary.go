package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docshelf/internal/codec"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// summaryTracker is the part of the registry the lifecycle drives.
type summaryTracker interface {
	Get(id string) (domain.Document, error)
	BeginSummary(id string) (domain.Document, error)
	CompleteSummary(id, summary string, state domain.SummaryState) bool
}

// SummaryService runs the per-document summarisation lifecycle.
type SummaryService struct {
	registry   summaryTracker
	summarizer driven.Summarizer

	mu      sync.Mutex
	pending map[string]chan struct{}
}

// NewSummaryService creates a summary service.
// summarizer may be nil when no LLM is configured; requests then fail
// with domain.ErrLLMUnavailable.
func NewSummaryService(registry *Registry, summarizer driven.Summarizer) *SummaryService {
	return &SummaryService{
		registry:   registry,
		summarizer: summarizer,
		pending:    make(map[string]chan struct{}),
	}
}

// Request moves the document to in-flight and starts the remote call in
// the background. The call outlives ctx cancellation. A request for a
// document already in flight returns the pending channel without
// starting a second call.
func (s *SummaryService) Request(ctx context.Context, id string) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.pending[id]; ok {
		logger.Debug("Summary for %s already in flight", id)
		return ch, nil
	}

	if _, err := s.registry.Get(id); err != nil {
		return nil, err
	}
	if s.summarizer == nil {
		return nil, domain.ErrLLMUnavailable
	}

	doc, err := s.registry.BeginSummary(id)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	s.pending[id] = done

	go s.run(context.WithoutCancel(ctx), doc, done)

	return done, nil
}

// Summarise requests a summary and waits for it to resolve.
func (s *SummaryService) Summarise(ctx context.Context, id string) (domain.Document, error) {
	done, err := s.Request(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}

	select {
	case <-done:
	case <-ctx.Done():
		return domain.Document{}, ctx.Err()
	}

	doc, err := s.registry.Get(id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document removed while summarising: %w", err)
	}
	return doc, nil
}

func (s *SummaryService) run(ctx context.Context, doc domain.Document, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		delete(s.pending, doc.ID)
		s.mu.Unlock()
		close(done)
	}()

	logger.Debug("Summarising %s (%s)", doc.Name, doc.ID)

	summary, state := s.summarise(ctx, doc)
	if !s.registry.CompleteSummary(doc.ID, summary, state) {
		logger.Debug("Discarding summary for removed document %s", doc.ID)
	}
}

// summarise performs the remote call and maps its outcome to a state.
func (s *SummaryService) summarise(ctx context.Context, doc domain.Document) (string, domain.SummaryState) {
	text, err := s.summarizer.Summarize(ctx, doc.Name, SummaryInput(doc))
	if err != nil {
		if !errors.Is(err, domain.ErrRemote) {
			err = fmt.Errorf("%w: %w", domain.ErrRemote, err)
		}
		logger.Warn("Summary failed for %q: %v", doc.Name, err)
		return domain.SummaryFallback, domain.SummaryFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Summary failed for %q: empty response", doc.Name)
		return domain.SummaryFallback, domain.SummaryFailed
	}
	return text, domain.SummaryDone
}

// SummaryInput selects what is sent for summarisation. PDFs are described
// by name only; other documents send their text, or their name when no
// text is available, capped at domain.MaxSummaryInput runes. Text kinds
// are read whatever their storage encoding.
func SummaryInput(doc domain.Document) string {
	if doc.Kind == domain.KindPDF {
		return "PDF document: " + doc.Name
	}

	read := codec.Text
	if doc.Kind.IsTextKind() {
		read = codec.DisplayText
	}
	input, ok := read(doc.Content)
	if !ok || strings.TrimSpace(input) == "" {
		input = doc.Name
	}
	return truncateRunes(input, domain.MaxSummaryInput)
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
