// Package pages normalises paginated documents into chunked units.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Normaliser chunks each page with text into units, in page order.
type Normaliser struct {
	processor driven.PostProcessor
}

// New creates a page normaliser.
func New(processor driven.PostProcessor) *Normaliser {
	return &Normaliser{processor: processor}
}

// Normalise skips pages with no extractable text and chunks the rest.
func (n *Normaliser) Normalise(ctx context.Context, src domain.TextPages) ([]domain.RetrievableUnit, error) {
	if n.processor == nil {
		return nil, fmt.Errorf("pages: %w: no post-processor", domain.ErrInvalidInput)
	}

	var units []domain.RetrievableUnit
	skipped := 0
	for i, page := range src.Pages {
		if strings.TrimSpace(page) == "" {
			skipped++
			continue
		}
		chunks, err := n.processor.Process(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("pages: %s page %d: %w", n.processor.Name(), i+1, err)
		}
		for _, chunk := range chunks {
			if strings.TrimSpace(chunk) == "" {
				continue
			}
			units = append(units, domain.NewUnit(chunk, nil))
		}
	}

	logger.Debug("pages: %s: %d pages, %d without text, %d units", src.URI, len(src.Pages), skipped, len(units))
	return units, nil
}
