package driven

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// Normaliser converts a raw Source into retrievable units.
// Every returned unit has non-empty text.
type Normaliser interface {
	Normalise(ctx context.Context, src domain.Source) ([]domain.RetrievableUnit, error)
}
