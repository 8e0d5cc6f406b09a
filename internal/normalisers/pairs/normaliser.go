// Package pairs normalises question/answer lists.
package pairs

import (
	"context"
	"fmt"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// Normaliser turns each Q/A entry into one unit.
type Normaliser struct{}

// New creates a pairs normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise renders every pair as "Question: {q} -> Answer: {a}".
func (n *Normaliser) Normalise(_ context.Context, src domain.KeyValuePairs) ([]domain.RetrievableUnit, error) {
	units := make([]domain.RetrievableUnit, 0, len(src.Pairs))
	for _, p := range src.Pairs {
		units = append(units, domain.NewUnit(Text(p), nil))
	}
	return units, nil
}

// Text renders a single pair.
func Text(p domain.QAPair) string {
	return fmt.Sprintf("Question: %s -> Answer: %s", p.Question, p.Answer)
}
