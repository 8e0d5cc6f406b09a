package driving

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// IndexStats describes a built domain index.
type IndexStats struct {
	Domain domain.Domain
	Units  int
}

// IngestService loads every source and builds the domain indexes.
type IngestService interface {
	// BuildAll loads sources and builds all domain indexes plus the order
	// store. It returns only after every build has finished.
	BuildAll(ctx context.Context) ([]IndexStats, error)

	// Build loads and rebuilds a single domain index.
	Build(ctx context.Context, d domain.Domain) (IndexStats, error)

	// LoadOrders replaces the order store contents without touching the
	// vector indexes.
	LoadOrders(ctx context.Context) error
}
