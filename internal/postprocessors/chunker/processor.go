// Package chunker provides a token-window text chunking processor.
package chunker

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// DefaultMaxTokens is the default number of tokens per chunk.
const DefaultMaxTokens = 512

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits text into contiguous, non-overlapping windows of at most
// maxTokens tokens. It implements the PostProcessor interface.
type Processor struct {
	tokenizer driven.Tokenizer
	maxTokens int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(tokenizer driven.Tokenizer, opts ...Option) *Processor {
	p := &Processor{
		tokenizer: tokenizer,
		maxTokens: DefaultMaxTokens,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxTokens returns the token budget per chunk.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// Process implements driven.PostProcessor.
func (p *Processor) Process(ctx context.Context, text string) ([]string, error) {
	return p.Chunk(ctx, text)
}

// Chunk splits text into ceil(N/maxTokens) chunks for N tokens. Every chunk
// but the last holds exactly maxTokens tokens; decoding the chunks in order
// reproduces the token sequence. Empty text produces no chunks.
func (p *Processor) Chunk(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	if p.tokenizer == nil {
		return nil, fmt.Errorf("chunker: no tokenizer configured")
	}

	tokens := p.tokenizer.Encode(text)
	chunks := make([]string, 0, (len(tokens)+p.maxTokens-1)/p.maxTokens)

	for start := 0; start < len(tokens); start += p.maxTokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + p.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, p.tokenizer.Decode(tokens[start:end]))
	}

	return chunks, nil
}
