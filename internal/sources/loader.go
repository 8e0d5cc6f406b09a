package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unioffice/common/license"

	"github.com/custodia-labs/deskagent/internal/adapters/driven/pdf"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.SourceLoader = (*Loader)(nil)

// Loader reads domain sources from the local filesystem.
type Loader struct {
	settings domain.SourceSettings
	pages    driven.PageExtractor
}

// Option configures a Loader.
type Option func(*Loader)

// WithPageExtractor overrides the PDF extractor chosen from settings.
func WithPageExtractor(e driven.PageExtractor) Option {
	return func(l *Loader) {
		l.pages = e
	}
}

// New creates a loader for the configured source paths.
func New(settings domain.SourceSettings, opts ...Option) (*Loader, error) {
	l := &Loader{settings: settings}
	for _, opt := range opts {
		opt(l)
	}

	if settings.UniPDFLicenseKey != "" {
		if err := license.SetMeteredKey(settings.UniPDFLicenseKey); err != nil {
			logger.Warn("unioffice license: %v", err)
		}
	}

	if l.pages == nil {
		switch settings.PDFBackend {
		case domain.PDFBackendUniPDF:
			u, err := pdf.NewUniPDF(settings.UniPDFLicenseKey)
			if err != nil {
				return nil, err
			}
			l.pages = u
		case domain.PDFBackendPdftotext, "":
			l.pages = pdf.NewPdftotext()
		default:
			return nil, fmt.Errorf("%w: unknown pdf backend %q", domain.ErrConfiguration, settings.PDFBackend)
		}
	}
	return l, nil
}

// Load reads the source configured for d.
func (l *Loader) Load(ctx context.Context, d domain.Domain) (domain.Source, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: domain %q", domain.ErrUnsupportedType, d)
	}
	path, err := checkPath(fmt.Sprintf("sources.%s", d), l.settings.Path(d))
	if err != nil {
		return nil, err
	}

	logger.Debug("loading %s source from %s", d, path)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		pages, err := l.pages.ExtractPages(ctx, path)
		if err != nil {
			return nil, err
		}
		return domain.TextPages{URI: path, Pages: pages}, nil
	case ".txt", ".md":
		return readTextPages(path)
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	case ".json":
		return readPairs(path)
	default:
		return nil, fmt.Errorf("%w: %s source %s has unsupported extension %q",
			domain.ErrConfiguration, d, path, ext)
	}
}

// HasOrderRecords reports whether an order records file is configured.
func (l *Loader) HasOrderRecords() bool {
	return l.settings.HasOrderRecords()
}

// LoadOrderRecords reads the table used for return eligibility.
func (l *Loader) LoadOrderRecords(_ context.Context) (domain.TabularRows, error) {
	path, err := checkPath("sources.order_records", l.settings.OrderRecords)
	if err != nil {
		return domain.TabularRows{}, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return domain.TabularRows{}, fmt.Errorf("%w: order records %s must be .csv or .xlsx",
			domain.ErrConfiguration, path)
	}
}

// checkPath reports a missing setting or file as a configuration error.
func checkPath(key, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrConfiguration, key)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: file %s does not exist", domain.ErrConfiguration, key, path)
		}
		return "", fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s: %s is a directory", domain.ErrConfiguration, key, path)
	}
	return path, nil
}
