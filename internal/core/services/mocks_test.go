package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService embeds text as counts of letters and digits, so texts
// sharing words land close together.
type mockEmbeddingService struct {
	mu       sync.Mutex
	batchErr error
	embedErr error
	batches  int
}

const mockDims = 36

func (m *mockEmbeddingService) vector(text string) []float32 {
	v := make([]float32, mockDims)
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			v[r-'a']++
		case unicode.IsDigit(r) && r <= '9':
			v[26+int(r-'0')]++
		}
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return mockDims }
func (m *mockEmbeddingService) ModelName() string            { return "letters" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService records every chat and answers with a fixed reply.
type mockLLMService struct {
	mu      sync.Mutex
	reply   string
	err     error
	history [][]driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.reply, m.err
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string            { return "mock" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// mockPromptStore serves prompts from a map.
type mockPromptStore map[string]string

func (m mockPromptStore) Load(name string) (string, error) { return m[name], nil }
func (m mockPromptStore) Reload()                          {}

// mockSourceLoader serves sources from memory.
type mockSourceLoader struct {
	sources map[domain.Domain]domain.Source
	records domain.TabularRows
	err     error
}

func (m *mockSourceLoader) Load(_ context.Context, d domain.Domain) (domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	src, ok := m.sources[d]
	if !ok {
		return nil, errors.New("no source")
	}
	return src, nil
}

func (m *mockSourceLoader) HasOrderRecords() bool { return len(m.records.Columns) > 0 }

func (m *mockSourceLoader) LoadOrderRecords(_ context.Context) (domain.TabularRows, error) {
	if !m.HasOrderRecords() {
		return domain.TabularRows{}, domain.ErrConfiguration
	}
	return m.records, m.err
}

// mockAIValidator returns fixed validation errors.
type mockAIValidator struct {
	embedErr  error
	llmErr    error
	vectorErr error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error     { return m.embedErr }
func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error                 { return m.llmErr }
func (m *mockAIValidator) ValidateVectorStore(_ *domain.VectorStoreSettings) error { return m.vectorErr }

// failingOrderStore fails every lookup.
type failingOrderStore struct{ err error }

func (f failingOrderStore) Replace(context.Context, []domain.OrderRecord) error { return f.err }
func (f failingOrderStore) Find(context.Context, string, string) (domain.OrderRecord, error) {
	return domain.OrderRecord{}, f.err
}
func (f failingOrderStore) Count(context.Context) (int, error) { return 0, f.err }
func (f failingOrderStore) Close() error                       { return nil }

func units(texts ...string) []domain.RetrievableUnit {
	out := make([]domain.RetrievableUnit, len(texts))
	for i, t := range texts {
		out[i] = domain.NewUnit(t, nil)
	}
	return out
}
