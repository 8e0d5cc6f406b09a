package postprocessors

import (
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// The tokenizer is shared by every processor that counts tokens.
func RegisterDefaults(r *Registry, tokenizer driven.Tokenizer) {
	r.Register("chunker", func(cfg map[string]any) (driven.PostProcessor, error) {
		return buildChunker(tokenizer, cfg), nil
	})
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - max_tokens (int): Tokens per chunk (default: 512)
func buildChunker(tokenizer driven.Tokenizer, cfg map[string]any) *chunker.Processor {
	var opts []chunker.Option
	if n := getIntFromConfig(cfg, "max_tokens"); n > 0 {
		opts = append(opts, chunker.WithMaxTokens(n))
	}
	return chunker.New(tokenizer, opts...)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
