package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Ensure UniPDF implements the interface.
var _ driven.PageExtractor = (*UniPDF)(nil)

var licenseOnce sync.Once

// UniPDF extracts pages in-process using unipdf.
type UniPDF struct{}

// NewUniPDF creates an extractor. A non-empty key is registered as the
// metered UniDoc license on first use.
func NewUniPDF(licenseKey string) (*UniPDF, error) {
	var err error
	if licenseKey != "" {
		licenseOnce.Do(func() {
			err = license.SetMeteredKey(licenseKey)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unipdf license: %w", domain.ErrConfiguration, err)
	}
	return &UniPDF{}, nil
}

// ExtractPages returns the text of each page. A page whose text cannot be
// extracted yields an empty string.
func (u *UniPDF) ExtractPages(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}

	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: page count: %w", domain.ErrSourceUnreadable, path, err)
	}

	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := reader.GetPage(i)
		if err != nil {
			logger.Warn("unipdf: %s page %d: %v", path, i, err)
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			logger.Warn("unipdf: %s page %d: %v", path, i, err)
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			logger.Warn("unipdf: %s page %d: %v", path, i, err)
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}
