// Package summarizer implements the remote summarisation capability on top
// of a raw LLM text generation service.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

const (
	// MaxSummaryChars is the longest summary returned, in characters. The
	// prompt asks the model to stay under it and longer replies are cut.
	MaxSummaryChars = 600

	// maxTokens bounds generation. Roughly four characters per token.
	maxTokens = MaxSummaryChars/4 + 64

	temperature = 0.2
)

// Built-in templates used when the prompt store is absent or fails.
const (
	fallbackPrompt = "Summarise the document %q in %d characters or less.\n\nDocument:\n%s\n\nSummary:"
	fallbackSystem = "You summarise documents. Answer with the summary only."
)

// Summarizer asks an LLM for document summaries.
// Requests are throttled to the configured rate per minute.
type Summarizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	limiter *rate.Limiter
}

// New creates a summarizer. prompts may be nil. A ratePerMinute of zero or
// less disables throttling.
func New(llm driven.LLMService, prompts driven.PromptStore, ratePerMinute int) *Summarizer {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}
	return &Summarizer{
		llm:     llm,
		prompts: prompts,
		limiter: limiter,
	}
}

// Summarize returns a trimmed summary of content, at most MaxSummaryChars
// characters long. Failures are wrapped with domain.ErrRemote.
func (s *Summarizer) Summarize(ctx context.Context, name, content string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", domain.ErrRemote, err)
	}

	prompt := fmt.Sprintf(s.load(driven.PromptSummariseDocument, fallbackPrompt), name, MaxSummaryChars, content)

	logger.Debug("Requesting summary of %q from %s (%d chars)", name, s.llm.ModelName(), len(content))
	start := time.Now()

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      s.load(driven.PromptSummariseSystem, fallbackSystem),
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: summarise %s: %w", domain.ErrRemote, name, err)
	}

	logger.Debug("Summary of %q took %v", name, time.Since(start))
	return truncate(strings.TrimSpace(out), MaxSummaryChars), nil
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace)
}

// load fetches a prompt, using fallback when the store is unavailable.
func (s *Summarizer) load(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil || prompt == "" {
		logger.Debug("Using built-in %s prompt: %v", name, err)
		return fallback
	}
	return prompt
}
