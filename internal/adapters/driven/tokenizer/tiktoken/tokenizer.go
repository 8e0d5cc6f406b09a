// Package tiktoken adapts BPE encodings from tiktoken-go to driven.Tokenizer.
// Encoding tables are compiled in, so no network access is needed.
package tiktoken

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

var loaderOnce sync.Once

// Tokenizer encodes text with a named BPE encoding such as cl100k_base.
type Tokenizer struct {
	name string
	enc  *tiktoken.Tiktoken
}

// New returns a tokenizer for the named encoding.
func New(encoding string) (*Tokenizer, error) {
	if encoding == "" {
		encoding = domain.DefaultTokenEncoding
	}
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: tokenizer encoding %q: %w", domain.ErrConfiguration, encoding, err)
	}
	return &Tokenizer{name: encoding, enc: enc}, nil
}

// Encode returns the token ids for text. Special tokens are treated as text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.EncodeOrdinary(text)
}

// Decode returns the text for tokens.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Name returns the encoding name.
func (t *Tokenizer) Name() string {
	return t.name
}
