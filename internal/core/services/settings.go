package services

import (
	"fmt"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keySessionMaxBytes  = "session.max_bytes"
	keySummaryRatePerMn = "summary.rate_per_minute"
)

// defaultOllamaURL is used when Ollama is selected without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// defaultLLMModels maps providers to the model used when none is given.
var defaultLLMModels = map[domain.AIProvider]string{
	domain.AIProviderOllama:    "llama3.2",
	domain.AIProviderOpenAI:    "gpt-4o-mini",
	domain.AIProviderAnthropic: "claude-3-5-haiku-latest",
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Session: domain.SessionSettings{
			MaxBytes: s.getPositiveInt(keySessionMaxBytes, defaults.Session.MaxBytes),
		},
		Summary: domain.SummarySettings{
			RatePerMinute: s.getRate(defaults.Summary.RatePerMinute),
		},
	}

	return settings, nil
}

// Save persists application settings in a single write.
// Empty model, base URL and API key fields remove the stored value.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyLLMModel:         orNil(settings.LLM.Model),
		keyLLMBaseURL:       orNil(settings.LLM.BaseURL),
		keyLLMAPIKey:        orNil(settings.LLM.APIKey),
		keySessionMaxBytes:  settings.Session.MaxBytes,
		keySummaryRatePerMn: settings.Summary.RatePerMinute,
	}
	if settings.LLM.Provider != "" {
		values[keyLLMProvider] = settings.LLM.Provider.String()
	}

	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = defaultLLMModels[provider]
	}

	// Set base URL based on provider type
	switch {
	case baseURL != "":
		settings.LLM.BaseURL = baseURL
	case provider.IsLocal():
		settings.LLM.BaseURL = defaultOllamaURL
	default:
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetSessionMaxBytes sets the session persistence ceiling.
func (s *SettingsService) SetSessionMaxBytes(maxBytes int) error {
	if maxBytes <= 0 {
		return fmt.Errorf("%w: session max bytes must be positive, got %d", domain.ErrInvalidInput, maxBytes)
	}
	if err := s.configStore.Set(keySessionMaxBytes, maxBytes); err != nil {
		return fmt.Errorf("save session max_bytes: %w", err)
	}
	return nil
}

// SetSummaryRate sets how many summaries may start per minute; 0 removes
// the limit.
func (s *SettingsService) SetSummaryRate(perMinute int) error {
	if perMinute < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %d", domain.ErrInvalidInput, perMinute)
	}
	if err := s.configStore.Set(keySummaryRatePerMn, perMinute); err != nil {
		return fmt.Errorf("save summary rate_per_minute: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func orNil(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getRate distinguishes an explicit zero (throttling off) from an unset key.
func (s *SettingsService) getRate(defaultVal int) int {
	if _, exists := s.configStore.Get(keySummaryRatePerMn); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(keySummaryRatePerMn)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
