package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// VectorBackend identifies where domain indexes are stored.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory keeps vectors in process.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendQdrant stores one collection per domain in Qdrant.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendMemory || b == VectorBackendQdrant
}

// OrderStoreBackend identifies where order records are kept for eligibility lookups.
type OrderStoreBackend string

// Available order stores.
const (
	OrderStoreMemory OrderStoreBackend = "memory"
	OrderStoreSQLite OrderStoreBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b OrderStoreBackend) IsValid() bool {
	return b == OrderStoreMemory || b == OrderStoreSQLite
}

// Strictness controls per-row validation of tabular sources.
type Strictness string

// Strictness policies.
const (
	// StrictnessLenient accepts any cell values once the header is valid.
	StrictnessLenient Strictness = "lenient"

	// StrictnessStrict validates numeric columns and fails on the first bad row.
	StrictnessStrict Strictness = "strict"
)

// IsValid returns true if the policy is recognised.
func (s Strictness) IsValid() bool {
	return s == StrictnessLenient || s == StrictnessStrict
}

// PDFBackend selects the page extractor used for TextPages sources.
type PDFBackend string

// Available PDF backends.
const (
	PDFBackendPdftotext PDFBackend = "pdftotext"
	PDFBackendUniPDF    PDFBackend = "unipdf"
)

// IsValid returns true if the backend is recognised.
func (b PDFBackend) IsValid() bool {
	return b == PDFBackendPdftotext || b == PDFBackendUniPDF
}

// Default settings values.
const (
	DefaultMaxTokens        = 512
	DefaultTokenEncoding    = "cl100k_base"
	DefaultTopK             = 2
	DefaultLLMTimeout       = 100 * time.Second
	DefaultQdrantTimeout    = 30 * time.Second
	DefaultQdrantURL        = "http://localhost:6333"
	DefaultOllamaURL        = "http://localhost:11434"
	DefaultEmbeddingRPS     = 0
	DefaultPromptsDirectory = "prompts"
	ConfigDirName           = ".deskagent"
)

// DefaultEmbeddingModels maps providers to their default embedding models.
var DefaultEmbeddingModels = map[AIProvider]string{
	AIProviderOllama: "all-minilm",
	AIProviderOpenAI: "text-embedding-3-small",
}

// DefaultLLMModels maps providers to their default LLM models.
var DefaultLLMModels = map[AIProvider]string{
	AIProviderOllama: "mistral",
	AIProviderOpenAI: "gpt-4o-mini",
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// RequestsPerSecond paces provider calls; zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if the provider has everything it needs.
func (s EmbeddingSettings) IsConfigured() bool {
	if !s.Provider.IsValid() || s.Model == "" {
		return false
	}
	return !s.Provider.RequiresAPIKey() || s.APIKey != ""
}

// LLMSettings configures the language model provider.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

// IsConfigured returns true if the provider has everything it needs.
func (s LLMSettings) IsConfigured() bool {
	if !s.Provider.IsValid() || s.Model == "" {
		return false
	}
	return !s.Provider.RequiresAPIKey() || s.APIKey != ""
}

// VectorStoreSettings configures the vector backend.
type VectorStoreSettings struct {
	Backend      VectorBackend
	QdrantURL    string
	QdrantAPIKey string
	Timeout      time.Duration
}

// SourceSettings locates the input files for each domain.
type SourceSettings struct {
	Returns          string
	Orders           string
	OrderRecords     string
	FAQ              string
	PDFBackend       PDFBackend
	UniPDFLicenseKey string
}

// Path returns the configured path for d.
func (s SourceSettings) Path(d Domain) string {
	switch d {
	case DomainReturns:
		return s.Returns
	case DomainOrders:
		return s.Orders
	case DomainFAQ:
		return s.FAQ
	default:
		return ""
	}
}

// HasOrderRecords reports whether an order records file is configured.
// The ORDERS index table is never used in its place: it lacks the category
// and payment method columns the return policy needs.
func (s SourceSettings) HasOrderRecords() bool {
	return s.OrderRecords != ""
}

// ChunkerSettings configures token-window chunking.
type ChunkerSettings struct {
	MaxTokens int
	Encoding  string
}

// RetrievalSettings configures semantic retrieval.
type RetrievalSettings struct {
	TopK         int
	ResponseMode ResponseMode
}

// OrderSettings configures the order store and ORDERS lookups.
type OrderSettings struct {
	Store       OrderStoreBackend
	Strictness  Strictness
	ExactLookup bool
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Sources     SourceSettings
	PromptsDir  string
	Chunker     ChunkerSettings
	Retrieval   RetrievalSettings
	Orders      OrderSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Sources:    SourceSettings{PDFBackend: PDFBackendPdftotext},
		PromptsDir: DefaultPromptsDirectory,
		Chunker:    ChunkerSettings{MaxTokens: DefaultMaxTokens, Encoding: DefaultTokenEncoding},
		Retrieval:  RetrievalSettings{TopK: DefaultTopK, ResponseMode: ResponseModeCompact},
		Orders: OrderSettings{
			Store:      OrderStoreMemory,
			Strictness: StrictnessLenient,
		},
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             DefaultEmbeddingModels[AIProviderOllama],
			BaseURL:           DefaultOllamaURL,
			RequestsPerSecond: DefaultEmbeddingRPS,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels[AIProviderOllama],
			BaseURL:  DefaultOllamaURL,
			Timeout:  DefaultLLMTimeout,
		},
		VectorStore: VectorStoreSettings{
			Backend:   VectorBackendMemory,
			QdrantURL: DefaultQdrantURL,
			Timeout:   DefaultQdrantTimeout,
		},
	}
}

// Validate reports the first configuration problem, wrapped in ErrConfiguration.
func (s AppSettings) Validate() error {
	return validateSettings(s)
}

// ValidateRecords checks only what return eligibility needs: an order
// records file and a usable order store. No AI provider is involved.
func (s AppSettings) ValidateRecords() error {
	return validateRecordSettings(s)
}
