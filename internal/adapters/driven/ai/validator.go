package ai

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks LLM settings before they are relied on for
// summaries: the base URL must be an absolute http(s) URL and the
// provider must answer a ping within Timeout.
type ConfigValidator struct {
	Timeout time.Duration
}

// NewConfigValidator creates a validator using the startup ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{Timeout: pingTimeout}
}

// ValidateLLM validates config. An unconfigured provider has nothing to
// check and passes.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	if config.BaseURL != "" {
		if err := checkBaseURL(config.BaseURL); err != nil {
			return err
		}
	}

	svc, err := CreateLLMService(config)
	if err != nil {
		return err
	}
	defer svc.Close()

	timeout := v.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return svc.Ping(ctx)
}

func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: base URL %q: %w", domain.ErrInvalidInput, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: base URL %q must start with http:// or https://", domain.ErrInvalidInput, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: base URL %q has no host", domain.ErrInvalidInput, raw)
	}
	return nil
}
