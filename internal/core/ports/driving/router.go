package driving

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// QueryRouter answers user questions against one domain's index.
type QueryRouter interface {
	// Route answers query using the pipeline for d.
	Route(ctx context.Context, session *domain.Session, d domain.Domain, query string) (domain.Response, error)

	// Enter records that session switched to d and returns the one-time
	// notice for that domain, or an empty string.
	Enter(session *domain.Session, d domain.Domain) string
}
