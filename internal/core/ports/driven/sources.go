package driven

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// PageExtractor reads the text of each page of a PDF, in page order.
// Pages without extractable text are returned as empty strings.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// SourceLoader reads the raw sources behind each domain.
type SourceLoader interface {
	// Load reads the source for d.
	Load(ctx context.Context, d domain.Domain) (domain.Source, error)

	// HasOrderRecords reports whether an order records table is configured.
	HasOrderRecords() bool

	// LoadOrderRecords reads the table evaluated by the return policy.
	LoadOrderRecords(ctx context.Context) (domain.TabularRows, error)
}
