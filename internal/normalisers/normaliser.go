package normalisers

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/normalisers/pages"
	"github.com/custodia-labs/deskagent/internal/normalisers/pairs"
	"github.com/custodia-labs/deskagent/internal/normalisers/tabular"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser dispatches a Source to the normaliser for its variant.
type Normaliser struct {
	pages   *pages.Normaliser
	tabular *tabular.Normaliser
	pairs   *pairs.Normaliser
}

// Option configures the normaliser.
type Option func(*options)

type options struct {
	schema     domain.TableSchema
	strictness domain.Strictness
}

// WithStrictness sets the row validation policy for tabular sources.
func WithStrictness(s domain.Strictness) Option {
	return func(o *options) {
		if s.IsValid() {
			o.strictness = s
		}
	}
}

// WithTableSchema sets the required columns for tabular sources.
func WithTableSchema(schema domain.TableSchema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

// New creates a normaliser that splits page text with processor.
func New(processor driven.PostProcessor, opts ...Option) *Normaliser {
	o := options{
		schema:     domain.OrderIndexSchema,
		strictness: domain.StrictnessLenient,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Normaliser{
		pages:   pages.New(processor),
		tabular: tabular.New(o.schema, o.strictness),
		pairs:   pairs.New(),
	}
}

// Normalise converts src into retrievable units.
func (n *Normaliser) Normalise(ctx context.Context, src domain.Source) ([]domain.RetrievableUnit, error) {
	switch s := src.(type) {
	case domain.TextPages:
		return n.pages.Normalise(ctx, s)
	case domain.TabularRows:
		return n.tabular.Normalise(ctx, s)
	case domain.KeyValuePairs:
		return n.pairs.Normalise(ctx, s)
	case nil:
		return nil, fmt.Errorf("normalise: %w: nil source", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("normalise: %w: source kind %s", domain.ErrUnsupportedType, src.Kind())
	}
}
