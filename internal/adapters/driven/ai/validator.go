package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// pinger is implemented by vector backends that run as a separate server.
type pinger interface {
	Ping(ctx context.Context) error
}

// ConfigValidator checks that the providers behind the support agents answer.
// Unlike Initialise it reports every provider with its model and endpoint,
// which is what `deskagent config check` prints.
type ConfigValidator struct{}

// NewConfigValidator creates a validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding requires a configured embedding provider and pings it.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return fmt.Errorf("%w: embedding provider is not fully configured", domain.ErrConfiguration)
	}
	if err := ValidateEmbeddingConfig(settings); err != nil {
		return fmt.Errorf("%s embedding model %q at %s: %w",
			settings.Provider, settings.Model, endpoint(settings.BaseURL), err)
	}
	return nil
}

// ValidateLLM requires a configured LLM provider and pings it.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return fmt.Errorf("%w: llm provider is not fully configured", domain.ErrConfiguration)
	}
	if err := ValidateLLMConfig(settings); err != nil {
		return fmt.Errorf("%s model %q at %s: %w",
			settings.Provider, settings.Model, endpoint(settings.BaseURL), err)
	}
	return nil
}

// ValidateVectorStore pings server-backed vector stores. The in-memory
// backend always passes.
func (v *ConfigValidator) ValidateVectorStore(settings *domain.VectorStoreSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: vector store is not configured", domain.ErrConfiguration)
	}
	store, err := CreateVectorStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	p, ok := store.(pinger)
	if !ok {
		return nil
	}
	if err := pingService(p.Ping); err != nil {
		return fmt.Errorf("%s at %s: %w", settings.Backend, endpoint(settings.QdrantURL), err)
	}
	return nil
}

func endpoint(url string) string {
	if url == "" {
		return "the default endpoint"
	}
	return url
}
