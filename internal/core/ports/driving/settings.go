package driving

import "github.com/custodia-labs/docshelf/internal/core/domain"

// SettingsService reads and updates the user's settings.
type SettingsService interface {
	// Get returns the stored settings with defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save writes all settings at once.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider selects the summarisation backend. An empty model or
	// base URL picks the provider default.
	SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error

	// SetSessionMaxBytes sets the saved session size ceiling.
	SetSessionMaxBytes(maxBytes int) error

	// SetSummaryRate sets summaries per minute; 0 means unlimited.
	SetSummaryRate(perMinute int) error

	// GetDefaults returns the built-in defaults.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig pings the configured provider.
	ValidateLLMConfig() error
}
