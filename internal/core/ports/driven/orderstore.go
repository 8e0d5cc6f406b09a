package driven

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// OrderStore holds order records for return-eligibility lookups.
// Stores are written once at startup and read concurrently afterwards.
type OrderStore interface {
	// Replace discards existing records and stores records in the given order.
	Replace(ctx context.Context, records []domain.OrderRecord) error

	// Find returns the first record, in storage order, for the customer and
	// normalised product. Returns domain.ErrNotFound if none matches.
	Find(ctx context.Context, customerID, product string) (domain.OrderRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
