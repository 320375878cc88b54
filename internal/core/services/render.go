package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docshelf/internal/codec"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// Ensure RenderService implements the interface.
var _ driving.RenderService = (*RenderService)(nil)

// User-facing notices.
const (
	noticePreviewUnavailable = "Preview unavailable: the file's content is not available in this session."
	noticeNoSummary          = "No summary yet. Request one to generate it."
	noticeSummaryPending     = "Summary is being generated..."
	noticeSlidesUnsupported  = "Inline slide preview is not supported. Download the file to view it."
)

// Dispatch selects the rendering strategy for a document and view mode.
// The summary view wins regardless of kind; otherwise the kind decides.
// An unrecognised view mode is treated as preview.
func Dispatch(doc domain.Document, mode domain.ViewMode) domain.Strategy {
	if mode == domain.ViewSummary {
		return domain.StrategySummary
	}

	switch doc.Kind {
	case domain.KindPDF:
		return domain.StrategyPDFViewer
	case domain.KindMarkdown:
		return domain.StrategyMarkdown
	case domain.KindXML, domain.KindText:
		return domain.StrategyText
	case domain.KindPresentation:
		return domain.StrategyPresentationDownload
	default:
		return domain.StrategyUnsupported
	}
}

// documentReader is the part of the registry rendering needs.
type documentReader interface {
	Get(id string) (domain.Document, error)
}

// RenderService applies rendering strategies to documents.
type RenderService struct {
	registry documentReader
	markdown driven.MarkdownRenderer
}

// NewRenderService creates a render service.
// Without a Markdown renderer, Markdown documents are shown as text.
func NewRenderService(registry *Registry, markdown driven.MarkdownRenderer) *RenderService {
	return &RenderService{
		registry: registry,
		markdown: markdown,
	}
}

// Render applies the dispatched strategy to the document.
// Missing content yields a notice, never an error.
func (s *RenderService) Render(ctx context.Context, id string, mode domain.ViewMode) (domain.Rendering, error) {
	doc, err := s.registry.Get(id)
	if err != nil {
		return domain.Rendering{}, err
	}

	out := domain.Rendering{
		Strategy:   Dispatch(doc, mode),
		DocumentID: doc.ID,
		Title:      doc.Name,
	}

	switch out.Strategy {
	case domain.StrategySummary:
		renderSummary(doc, &out)

	case domain.StrategyPDFViewer:
		if !doc.Rehydrated() {
			out.Notice = noticePreviewUnavailable
			break
		}
		out.Handle = doc.Handle
		out.PageCount = doc.PageCount

	case domain.StrategyMarkdown:
		text, ok := codec.DisplayText(doc.Content)
		if !ok {
			out.Notice = noticePreviewUnavailable
			break
		}
		out.Body = s.renderMarkdown(ctx, doc, text, &out)

	case domain.StrategyText:
		text, ok := codec.DisplayText(doc.Content)
		if !ok {
			out.Notice = noticePreviewUnavailable
			break
		}
		out.Body = text

	case domain.StrategyPresentationDownload:
		out.Handle = doc.Handle
		out.DownloadName = doc.Name
		out.Notice = noticeSlidesUnsupported
		if !doc.Rehydrated() && doc.Content == nil {
			out.DownloadName = ""
			out.Notice = noticePreviewUnavailable
		}

	default:
		out.Notice = fmt.Sprintf("%s cannot be previewed.", doc.Name)
		if doc.Rehydrated() || doc.Content != nil {
			out.Handle = doc.Handle
			out.DownloadName = doc.Name
		}
	}

	return out, nil
}

// renderMarkdown converts Markdown to HTML, degrading to the text strategy
// when no renderer is available or rendering fails.
func (s *RenderService) renderMarkdown(ctx context.Context, doc domain.Document, text string, out *domain.Rendering) string {
	if s.markdown == nil {
		out.Strategy = domain.StrategyText
		return text
	}
	html, err := s.markdown.Render(ctx, text)
	if err != nil {
		logger.Warn("Markdown rendering failed for %q: %v", doc.Name, err)
		out.Strategy = domain.StrategyText
		return text
	}
	return html
}

func renderSummary(doc domain.Document, out *domain.Rendering) {
	out.SummaryState = doc.SummaryState
	switch doc.SummaryState {
	case domain.SummaryInFlight:
		out.Notice = noticeSummaryPending
	case domain.SummaryDone, domain.SummaryFailed:
		out.Body = doc.Summary
	default:
		out.Notice = noticeNoSummary
	}
}
