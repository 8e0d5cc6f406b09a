package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure Pdftotext implements the interface.
var _ driven.PageExtractor = (*Pdftotext)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found on PATH")

const pdftotextBin = "pdftotext"

// pageBreak separates pages in pdftotext output.
const pageBreak = "\f"

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Pdftotext extracts pages by running pdftotext.
type Pdftotext struct {
	runner CommandRunner
}

// PdftotextOption configures a Pdftotext extractor.
type PdftotextOption func(*Pdftotext)

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) PdftotextOption {
	return func(p *Pdftotext) {
		p.runner = r
	}
}

// NewPdftotext creates an extractor that runs pdftotext from PATH.
func NewPdftotext(opts ...PdftotextOption) *Pdftotext {
	p := &Pdftotext{runner: execRunner{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractPages returns the text of each page.
func (p *Pdftotext) ExtractPages(ctx context.Context, path string) ([]string, error) {
	out, err := p.runner.Run(ctx, pdftotextBin, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return nil, fmt.Errorf("%w: %w\n%s", domain.ErrConfiguration, err, InstallInstructions())
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, path, err)
	}
	return splitPages(string(out)), nil
}

// splitPages splits on form feeds. pdftotext ends every page with one, so
// the empty remainder after the last is dropped.
func splitPages(out string) []string {
	if out == "" {
		return nil
	}
	pages := strings.Split(out, pageBreak)
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is part of poppler. Install it with:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils
or set sources.pdf_backend = "unipdf".`
}
