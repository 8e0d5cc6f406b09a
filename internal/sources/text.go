package sources

import (
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// readTextPages reads a plain-text document. Form feeds separate pages,
// matching pdftotext output saved to disk.
func readTextPages(path string) (domain.TextPages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.TextPages{}, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	return domain.TextPages{URI: path, Pages: strings.Split(string(data), "\f")}, nil
}
