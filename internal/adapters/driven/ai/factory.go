// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/docshelf/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docshelf/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docshelf/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/summarizer"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	Summarizer driven.Summarizer // Nil when no LLM is configured or reachable.
	Warnings   []string          // Non-fatal issues; summarisation is disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the summarisation stack from settings. Configuration or
// connectivity problems are reported as warnings, leaving Summarizer nil.
func Init(settings *domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.LLM.IsConfigured() {
		return result
	}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}

	result.LLMService = llm
	result.Summarizer = summarizer.New(llm, prompts, settings.Summary.RatePerMinute)
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docshelf settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docshelf settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns an error if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: LLM provider is not configured", domain.ErrLLMUnavailable)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
