package sources

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

const utf8BOM = "\ufeff"

// readCSV reads a header row and data rows. Comma and semicolon delimiters
// are both accepted; the header decides which. Rows may be shorter or
// longer than the header.
func readCSV(path string) (domain.TabularRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.TabularRows{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return domain.TabularRows{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}

	r := csv.NewReader(br)
	r.Comma = detectDelimiter(string(first))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.TabularRows{URI: path}, nil
		}
		return domain.TabularRows{}, fmt.Errorf("%w: %s: header: %w", domain.ErrSourceUnreadable, path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.TabularRows{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		rows = append(rows, rec)
	}

	return domain.TabularRows{URI: path, Columns: header, Rows: rows}, nil
}

func detectDelimiter(sample string) rune {
	line, _, _ := strings.Cut(sample, "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
