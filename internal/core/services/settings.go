package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySourceReturns      = "sources.returns"
	keySourceOrders       = "sources.orders"
	keySourceOrderRecords = "sources.order_records"
	keySourceFAQ          = "sources.faq"
	keyPDFBackend         = "sources.pdf_backend"
	keyUniPDFLicense      = "sources.unipdf_license_key"
	keyPromptsDir         = "prompts.dir"
	keyChunkMaxTokens     = "chunker.max_tokens"
	keyChunkEncoding      = "chunker.encoding"
	keyTopK               = "retrieval.top_k"
	keyResponseMode       = "retrieval.response_mode"
	keyOrderStore         = "orders.store"
	keyOrderStrictness    = "orders.strictness"
	keyOrderExactLookup   = "orders.exact_lookup"
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedRPS           = "embedding.requests_per_second"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMTimeout         = "llm.timeout_secs"
	keyVectorBackend      = "vector_store.backend"
	keyQdrantURL          = "vector_store.qdrant.url"
	keyQdrantAPIKey       = "vector_store.qdrant.api_key"
	keyQdrantTimeout      = "vector_store.qdrant.timeout_secs"
)

// Environment variables that fill missing credentials.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvQdrantAPIKey = "QDRANT_API_KEY"
)

// KnownKeys lists every configuration key the application reads.
func KnownKeys() []string {
	return []string{
		keySourceReturns, keySourceOrders, keySourceOrderRecords, keySourceFAQ, keyPDFBackend, keyUniPDFLicense,
		keyPromptsDir, keyChunkMaxTokens, keyChunkEncoding, keyTopK, keyResponseMode,
		keyOrderStore, keyOrderStrictness, keyOrderExactLookup,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, keyEmbedRPS,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMTimeout,
		keyVectorBackend, keyQdrantURL, keyQdrantAPIKey, keyQdrantTimeout,
	}
}

// SettingsService maps the config store onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()
	baseDir := filepath.Dir(s.configStore.Path())

	settings := &domain.AppSettings{
		Sources: domain.SourceSettings{
			Returns:          resolvePath(baseDir, s.configStore.GetString(keySourceReturns)),
			Orders:           resolvePath(baseDir, s.configStore.GetString(keySourceOrders)),
			OrderRecords:     resolvePath(baseDir, s.configStore.GetString(keySourceOrderRecords)),
			FAQ:              resolvePath(baseDir, s.configStore.GetString(keySourceFAQ)),
			PDFBackend:       domain.PDFBackend(s.getString(keyPDFBackend, string(d.Sources.PDFBackend))),
			UniPDFLicenseKey: s.configStore.GetString(keyUniPDFLicense),
		},
		PromptsDir: resolvePath(baseDir, s.getString(keyPromptsDir, d.PromptsDir)),
		Chunker: domain.ChunkerSettings{
			MaxTokens: s.getInt(keyChunkMaxTokens, d.Chunker.MaxTokens),
			Encoding:  s.getString(keyChunkEncoding, d.Chunker.Encoding),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyTopK, d.Retrieval.TopK),
			ResponseMode: domain.ResponseMode(s.getString(keyResponseMode, string(d.Retrieval.ResponseMode))),
		},
		Orders: domain.OrderSettings{
			Store:       domain.OrderStoreBackend(s.getString(keyOrderStore, string(d.Orders.Store))),
			Strictness:  domain.Strictness(s.getString(keyOrderStrictness, string(d.Orders.Strictness))),
			ExactLookup: s.configStore.GetBool(keyOrderExactLookup),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          domain.AIProvider(s.getString(keyEmbedProvider, string(d.Embedding.Provider))),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProvider(s.getString(keyLLMProvider, string(d.LLM.Provider))),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, d.LLM.Timeout),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend:      domain.VectorBackend(s.getString(keyVectorBackend, string(d.VectorStore.Backend))),
			QdrantURL:    s.getString(keyQdrantURL, d.VectorStore.QdrantURL),
			QdrantAPIKey: s.configStore.GetString(keyQdrantAPIKey),
			Timeout:      s.getSeconds(keyQdrantTimeout, d.VectorStore.Timeout),
		},
	}

	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels[settings.LLM.Provider])

	// Local providers need a base URL; cloud providers use their SDK default.
	if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = domain.DefaultOllamaURL
	}
	if settings.LLM.Provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = domain.DefaultOllamaURL
	}

	s.fillCredentials(settings)
	return settings, nil
}

// fillCredentials takes missing API keys from the environment.
func (s *SettingsService) fillCredentials(settings *domain.AppSettings) {
	if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.getenv(EnvOpenAIAPIKey)
	}
	if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.getenv(EnvOpenAIAPIKey)
	}
	if settings.VectorStore.QdrantAPIKey == "" {
		settings.VectorStore.QdrantAPIKey = s.getenv(EnvQdrantAPIKey)
	}
}

// Set updates a single configuration key and persists it.
// Values that look like booleans or numbers are stored typed.
func (s *SettingsService) Set(key, value string) error {
	known := false
	for _, k := range KnownKeys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parseValue(value)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks settings for completeness without network access.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// CheckProviders pings the configured embedding, LLM and vector providers.
func (s *SettingsService) CheckProviders() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.aiValidator.ValidateEmbedding(&settings.Embedding); err != nil {
		return fmt.Errorf("%w: embedding: %w", domain.ErrConfiguration, err)
	}
	if err := s.aiValidator.ValidateLLM(&settings.LLM); err != nil {
		return fmt.Errorf("%w: llm: %w", domain.ErrConfiguration, err)
	}
	if err := s.aiValidator.ValidateVectorStore(&settings.VectorStore); err != nil {
		return fmt.Errorf("%w: vector store: %w", domain.ErrConfiguration, err)
	}
	return nil
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := strings.TrimSpace(s.configStore.GetString(key)); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return fallback
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getSeconds(key string, fallback time.Duration) time.Duration {
	if secs := s.configStore.GetFloat(key); secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(baseDir, p)
}

func parseValue(v string) any {
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
		return b
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
