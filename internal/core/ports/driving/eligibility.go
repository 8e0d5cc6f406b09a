package driving

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// EligibilityService decides whether an order can be returned.
// It never calls a language model.
type EligibilityService interface {
	Evaluate(ctx context.Context, customerID, productName string) (domain.EligibilityResult, error)
}
