package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/postprocessors/chunker"
)

// registryMockProcessor is a simple mock for testing registry functionality.
type registryMockProcessor struct {
	name string
}

func (m *registryMockProcessor) Name() string { return m.name }
func (m *registryMockProcessor) Process(_ context.Context, text string) ([]string, error) {
	return []string{text}, nil
}

type byteTokenizer struct{}

func (byteTokenizer) Encode(text string) []int {
	out := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int(text[i])
	}
	return out
}

func (byteTokenizer) Decode(tokens []int) string {
	b := make([]byte, len(tokens))
	for i, t := range tokens {
		b[i] = byte(t)
	}
	return string(b)
}

func (byteTokenizer) Name() string { return "bytes" }

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("test", func(cfg map[string]any) (driven.PostProcessor, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockProcessor{name: name}, nil
	})

	if !r.Has("test") {
		t.Fatal("expected 'test' to be registered")
	}

	proc, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if proc.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", proc.Name())
	}
}

func TestRegistry_Build_Unknown(t *testing.T) {
	_, err := NewRegistry().Build("missing", nil)
	if !errors.Is(err, domain.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r, byteTokenizer{})

	if names := r.Names(); len(names) != 1 || names[0] != "chunker" {
		t.Fatalf("unexpected names: %v", names)
	}

	tests := []struct {
		name string
		cfg  map[string]any
		want int
	}{
		{"nil config", nil, chunker.DefaultMaxTokens},
		{"int", map[string]any{"max_tokens": 128}, 128},
		{"int64 from toml", map[string]any{"max_tokens": int64(256)}, 256},
		{"float64 from json", map[string]any{"max_tokens": float64(64)}, 64},
		{"wrong type", map[string]any{"max_tokens": "big"}, chunker.DefaultMaxTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := r.Build("chunker", tt.cfg)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			p, ok := proc.(*chunker.Processor)
			if !ok {
				t.Fatalf("expected *chunker.Processor, got %T", proc)
			}
			if p.MaxTokens() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, p.MaxTokens())
			}
		})
	}
}
