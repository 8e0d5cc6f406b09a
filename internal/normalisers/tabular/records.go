package tabular

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// ParseRecords converts rows into order records for the return policy.
// The header must satisfy domain.OrderRecordSchema.
func ParseRecords(src domain.TabularRows, strictness domain.Strictness) ([]domain.OrderRecord, error) {
	cols, err := Resolve(domain.OrderRecordSchema, src.Columns)
	if err != nil {
		return nil, fmt.Errorf("order records: %s: %w", src.URI, err)
	}

	v := newRowValidator()
	records := make([]domain.OrderRecord, 0, len(src.Rows))
	for i, row := range src.Rows {
		if strictness == domain.StrictnessStrict {
			if err := v.recordRow(cols, row); err != nil {
				return nil, fmt.Errorf("order records: %s row %d: %w", src.URI, i+1, err)
			}
		}
		records = append(records, domain.OrderRecord{
			CustomerID:    cols.Value(row, domain.ColCustomerID),
			Product:       domain.NormaliseKey(cols.Value(row, domain.ColProduct)),
			Category:      domain.NormaliseKey(cols.Value(row, domain.ColCategory)),
			Price:         cols.Value(row, domain.ColPrice),
			Quantity:      cols.Value(row, domain.ColQuantity),
			OrderDate:     cols.Value(row, domain.ColOrderDate),
			PaymentMethod: strings.TrimSpace(cols.Value(row, domain.ColPaymentMethod)),
			Attributes:    attributes(src.Columns, row),
		})
	}
	return records, nil
}
