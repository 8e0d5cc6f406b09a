package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSettings() AppSettings {
	s := DefaultAppSettings()
	s.Sources.Returns = "policy.pdf"
	s.Sources.Orders = "orders.csv"
	s.Sources.FAQ = "faq.json"
	return s
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()
	assert.Equal(t, DefaultMaxTokens, s.Chunker.MaxTokens)
	assert.Equal(t, DefaultTopK, s.Retrieval.TopK)
	assert.Equal(t, ResponseModeCompact, s.Retrieval.ResponseMode)
	assert.Equal(t, "mistral", s.LLM.Model)
	assert.Equal(t, StrictnessLenient, s.Orders.Strictness)
	assert.False(t, s.Orders.ExactLookup)
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
		ok     bool
	}{
		{"valid", func(*AppSettings) {}, true},
		{"missing faq source", func(s *AppSettings) { s.Sources.FAQ = "" }, false},
		{"openai without key", func(s *AppSettings) {
			s.LLM.Provider = AIProviderOpenAI
			s.LLM.APIKey = ""
		}, false},
		{"openai with key", func(s *AppSettings) {
			s.Embedding.Provider = AIProviderOpenAI
			s.Embedding.APIKey = "sk-test"
		}, true},
		{"unipdf without license", func(s *AppSettings) { s.Sources.PDFBackend = PDFBackendUniPDF }, false},
		{"zero top k", func(s *AppSettings) { s.Retrieval.TopK = 0 }, false},
		{"bad strictness", func(s *AppSettings) { s.Orders.Strictness = "paranoid" }, false},
		{"qdrant without url", func(s *AppSettings) {
			s.VectorStore.Backend = VectorBackendQdrant
			s.VectorStore.QdrantURL = ""
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestSourceSettings_HasOrderRecords(t *testing.T) {
	s := SourceSettings{Orders: "orders.csv"}
	assert.False(t, s.HasOrderRecords())
	s.OrderRecords = "records.xlsx"
	assert.True(t, s.HasOrderRecords())
}

func TestAppSettings_ValidateRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
		ok     bool
	}{
		{"records without any AI provider", func(s *AppSettings) {
			s.Sources = SourceSettings{OrderRecords: "records.csv"}
			s.LLM = LLMSettings{}
			s.Embedding = EmbeddingSettings{}
		}, true},
		{"orders table alone is not enough", func(s *AppSettings) {
			s.Sources = SourceSettings{Orders: "orders.csv"}
		}, false},
		{"unknown store", func(s *AppSettings) {
			s.Sources.OrderRecords = "records.csv"
			s.Orders.Store = "redis"
		}, false},
		{"unknown strictness", func(s *AppSettings) {
			s.Sources.OrderRecords = "records.csv"
			s.Orders.Strictness = "pedantic"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			err := s.ValidateRecords()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}
