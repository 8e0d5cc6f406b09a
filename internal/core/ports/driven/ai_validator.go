package driven

import "github.com/custodia-labs/deskagent/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM validates an LLM configuration by pinging the provider.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateVectorStore pings the vector backend when it runs as a server.
	ValidateVectorStore(config *domain.VectorStoreSettings) error
}
