package tabular

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Normaliser turns each table row into exactly one unit.
type Normaliser struct {
	schema     domain.TableSchema
	strictness domain.Strictness
	validator  *rowValidator
}

// New creates a tabular normaliser for schema.
func New(schema domain.TableSchema, strictness domain.Strictness) *Normaliser {
	return &Normaliser{
		schema:     schema,
		strictness: strictness,
		validator:  newRowValidator(),
	}
}

// Normalise validates the header and renders every row. Attributes hold
// every column of the row keyed by its trimmed header name.
func (n *Normaliser) Normalise(_ context.Context, src domain.TabularRows) ([]domain.RetrievableUnit, error) {
	cols, err := Resolve(n.schema, src.Columns)
	if err != nil {
		return nil, fmt.Errorf("tabular: %s: %w", src.URI, err)
	}

	units := make([]domain.RetrievableUnit, 0, len(src.Rows))
	for i, row := range src.Rows {
		if n.strictness == domain.StrictnessStrict {
			if err := n.validator.orderRow(cols, row); err != nil {
				return nil, fmt.Errorf("tabular: %s row %d: %w", src.URI, i+1, err)
			}
		}
		units = append(units, domain.NewUnit(OrderText(cols, row), attributes(src.Columns, row)))
	}

	logger.Debug("tabular: %s: %d rows", src.URI, len(units))
	return units, nil
}

// OrderText renders an order row as a sentence.
func OrderText(cols Columns, row []string) string {
	return fmt.Sprintf("Pedido %s: %s compró %s x %s (%s) el %s.",
		cols.Value(row, domain.ColOrderID),
		cols.Value(row, domain.ColBuyer),
		cols.Value(row, domain.ColQuantityES),
		cols.Value(row, domain.ColProductName),
		cols.Value(row, domain.ColStatus),
		cols.Value(row, domain.ColOrderDateES),
	)
}

func attributes(header, row []string) map[string]string {
	attrs := make(map[string]string, len(header))
	for i, h := range header {
		key := strings.TrimSpace(h)
		if key == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = row[i]
		}
		attrs[key] = value
	}
	return attrs
}
