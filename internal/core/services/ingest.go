package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
	"github.com/custodia-labs/deskagent/internal/logger"
	"github.com/custodia-labs/deskagent/internal/normalisers/tabular"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// ProgressFunc is called when a domain build starts.
type ProgressFunc func(d domain.Domain)

// IngestService loads sources, normalises them and builds indexes.
type IngestService struct {
	loader     driven.SourceLoader
	normaliser driven.Normaliser
	builder    IndexBuilder
	orders     driven.OrderStore
	strictness domain.Strictness

	progressMu sync.Mutex
	progress   ProgressFunc
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithProgress registers a callback for build progress. Calls are serialised.
func WithProgress(fn ProgressFunc) IngestOption {
	return func(s *IngestService) {
		s.progress = fn
	}
}

// WithRecordStrictness sets the row validation policy for order records.
func WithRecordStrictness(strictness domain.Strictness) IngestOption {
	return func(s *IngestService) {
		if strictness.IsValid() {
			s.strictness = strictness
		}
	}
}

// NewIngestService creates an ingest service. The orders store is optional;
// without it order records are not loaded.
func NewIngestService(
	loader driven.SourceLoader,
	normaliser driven.Normaliser,
	builder IndexBuilder,
	orders driven.OrderStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		loader:     loader,
		normaliser: normaliser,
		builder:    builder,
		orders:     orders,
		strictness: domain.StrictnessLenient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildAll builds every domain index in parallel and, when an order records
// table is configured, loads the order store. It returns once all work has
// finished; the first error cancels the rest.
func (s *IngestService) BuildAll(ctx context.Context) ([]driving.IndexStats, error) {
	logger.Section("Index Build")

	domains := domain.AllDomains()
	stats := make([]driving.IndexStats, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range domains {
		g.Go(func() error {
			st, err := s.Build(gctx, d)
			if err != nil {
				return err
			}
			stats[i] = st
			return nil
		})
	}
	if s.orders != nil && s.loader.HasOrderRecords() {
		g.Go(func() error {
			return s.LoadOrders(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Build loads, normalises and indexes one domain.
func (s *IngestService) Build(ctx context.Context, d domain.Domain) (driving.IndexStats, error) {
	s.report(d)

	src, err := s.loader.Load(ctx, d)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("load %s source: %w", d, err)
	}

	units, err := s.normaliser.Normalise(ctx, src)
	if err != nil {
		return driving.IndexStats{}, fmt.Errorf("normalise %s source: %w", d, err)
	}

	idx, err := s.builder.Build(ctx, d, units)
	if err != nil {
		return driving.IndexStats{}, err
	}
	return driving.IndexStats{Domain: d, Units: idx.Len()}, nil
}

// LoadOrders replaces the order store contents with the order records table.
// A missing or malformed table is an error here, unlike in BuildAll.
func (s *IngestService) LoadOrders(ctx context.Context) error {
	if s.orders == nil {
		return nil
	}
	rows, err := s.loader.LoadOrderRecords(ctx)
	if err != nil {
		return fmt.Errorf("load order records: %w", err)
	}
	records, err := tabular.ParseRecords(rows, s.strictness)
	if err != nil {
		return err
	}
	if err := s.orders.Replace(ctx, records); err != nil {
		return fmt.Errorf("store order records: %w", err)
	}
	logger.Info("Loaded %d order records", len(records))
	return nil
}

func (s *IngestService) report(d domain.Domain) {
	if s.progress == nil {
		return
	}
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.progress(d)
}
