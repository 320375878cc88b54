package driven

import "github.com/custodia-labs/docshelf/internal/core/domain"

// AIConfigValidator validates LLM provider configurations.
// Implementations verify a configuration by testing connectivity
// to the underlying service before it is saved.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if configuration is valid or not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
