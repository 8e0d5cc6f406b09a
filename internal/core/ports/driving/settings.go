package driving

import "github.com/custodia-labs/deskagent/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filling defaults and
	// credentials from the environment.
	Get() (*domain.AppSettings, error)

	// Set updates a single configuration key and persists it.
	Set(key, value string) error

	// Validate checks settings for completeness without network access.
	Validate() error

	// CheckProviders pings the configured embedding and LLM providers.
	CheckProviders() error
}
