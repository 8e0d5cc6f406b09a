package sources

import (
	"fmt"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// readXLSX reads the first worksheet. The first row is the header. Cells
// are placed by their column letter so gaps in sparse rows stay aligned.
func readXLSX(path string) (domain.TabularRows, error) {
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return domain.TabularRows{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	defer wb.Close()

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return domain.TabularRows{URI: path}, nil
	}

	var table [][]string
	for _, row := range sheets[0].Rows() {
		var cells []string
		for _, cell := range row.Cells() {
			col, err := cell.Column()
			if err != nil {
				return domain.TabularRows{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
			}
			idx := int(reference.ColumnToIndex(col))
			for len(cells) <= idx {
				cells = append(cells, "")
			}
			cells[idx] = cell.GetString()
		}
		if isBlankRecord(cells) {
			continue
		}
		table = append(table, cells)
	}

	if len(table) == 0 {
		return domain.TabularRows{URI: path}, nil
	}
	return domain.TabularRows{URI: path, Columns: table[0], Rows: table[1:]}, nil
}
