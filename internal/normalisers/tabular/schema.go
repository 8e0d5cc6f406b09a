// Package tabular normalises table rows into order units and order records.
package tabular

import (
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// Columns maps canonical column names to their position in a header.
type Columns map[string]int

// Value returns the cell for canonical column name, or "" when the row is short.
func (c Columns) Value(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Resolve matches header against schema. Names compare case-insensitively
// after trimming. Every missing column is reported in one *SchemaError.
func Resolve(schema domain.TableSchema, header []string) (Columns, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := domain.NormaliseKey(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	cols := make(Columns, len(schema.Columns))
	var missing []string
	for _, col := range schema.Columns {
		found := false
		for _, name := range col.Names {
			if i, ok := positions[name]; ok {
				cols[col.Canonical()] = i
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col.Canonical())
		}
	}

	if len(missing) > 0 {
		return nil, &domain.SchemaError{Table: schema.Name, Missing: missing}
	}
	return cols, nil
}
