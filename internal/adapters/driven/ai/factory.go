// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/deskagent/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/deskagent/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/deskagent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/deskagent/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/deskagent/internal/adapters/driven/tokenizer/tiktoken"
	memvector "github.com/custodia-labs/deskagent/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/deskagent/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the services built from AppSettings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore
	Tokenizer        driven.Tokenizer
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds every AI-side service. Both providers are required.
// When ping is true both must answer before Initialise returns.
func Initialise(settings domain.AppSettings, ping bool) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding: %w", domain.ErrConfiguration, err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not fully configured",
			domain.ErrConfiguration, settings.Embedding.Provider)
	}
	result.EmbeddingService = embedder

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: llm: %w", domain.ErrConfiguration, err)
	}
	if llm == nil {
		result.Close()
		return nil, fmt.Errorf("%w: llm provider %q is not fully configured",
			domain.ErrConfiguration, settings.LLM.Provider)
	}
	result.LLMService = llm

	if ping {
		if err := pingService(embedder.Ping); err != nil {
			result.Close()
			return nil, fmt.Errorf("%w: embedding service unreachable (%w)", domain.ErrConfiguration, err)
		}
		if err := pingService(llm.Ping); err != nil {
			result.Close()
			return nil, fmt.Errorf("%w: llm service unreachable (%w)", domain.ErrLLMUnavailable, err)
		}
	}

	store, err := CreateVectorStore(&settings.VectorStore)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = store

	tok, err := CreateTokenizer(settings.Chunker)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.Tokenizer = tok

	return result, nil
}

func pingService(ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return ping(ctx)
}

// ValidateEmbeddingConfig creates the configured embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return pingService(svc.Ping)
}

// ValidateLLMConfig creates the configured LLM service and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return pingService(svc.Ping)
}

// CreateEmbeddingService creates the embedding service for settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorStore creates the configured vector backend.
func CreateVectorStore(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	switch settings.Backend {
	case domain.VectorBackendMemory, "":
		return memvector.New(), nil

	case domain.VectorBackendQdrant:
		return qdrant.New(qdrant.Config{
			URL:     settings.QdrantURL,
			APIKey:  settings.QdrantAPIKey,
			Timeout: settings.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector backend: %s", domain.ErrConfiguration, settings.Backend)
	}
}

// CreateTokenizer creates the tokenizer used by the chunker.
func CreateTokenizer(settings domain.ChunkerSettings) (driven.Tokenizer, error) {
	return tiktoken.New(settings.Encoding)
}
