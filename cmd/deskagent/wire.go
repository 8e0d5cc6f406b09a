package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/deskagent/internal/adapters/driven/ai"
	"github.com/custodia-labs/deskagent/internal/adapters/driven/config/file"
	"github.com/custodia-labs/deskagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/deskagent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/cli"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
	"github.com/custodia-labs/deskagent/internal/core/services"
	"github.com/custodia-labs/deskagent/internal/logger"
	"github.com/custodia-labs/deskagent/internal/normalisers"
	"github.com/custodia-labs/deskagent/internal/postprocessors"
	"github.com/custodia-labs/deskagent/internal/sources"
)

// dataDirName holds the SQLite order store under the config directory.
const dataDirName = "data"

func newSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("%w: open config: %v", domain.ErrConfiguration, err)
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

func newRuntime(
	ctx context.Context, configDir string, settings domain.AppSettings, progress func(domain.Domain),
) (*cli.Runtime, error) {
	aiServices, err := ai.Initialise(settings, true)
	if err != nil {
		return nil, err
	}
	closers := []func() error{func() error {
		aiServices.Close()
		return nil
	}}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Runtime, error) {
		if cerr := closeAll(); cerr != nil {
			logger.Warn("cleanup after failed start: %v", cerr)
		}
		return nil, err
	}

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors, aiServices.Tokenizer)
	chunker, err := processors.Build("chunker", map[string]any{"max_tokens": settings.Chunker.MaxTokens})
	if err != nil {
		return fail(err)
	}
	normaliser := normalisers.New(chunker, normalisers.WithStrictness(settings.Orders.Strictness))

	loader, err := sources.New(settings.Sources)
	if err != nil {
		return fail(err)
	}

	orders, err := newOrderStore(settings.Orders.Store, configDir)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, orders.Close)

	prompts, err := file.NewPromptStore(settings.PromptsDir)
	if err != nil {
		return fail(fmt.Errorf("%w: prompts: %v", domain.ErrConfiguration, err))
	}
	if err := prompts.Watch(ctx); err != nil {
		logger.Warn("prompts will not reload on change: %v", err)
	}

	registry := services.NewIndexRegistry(
		aiServices.EmbeddingService, aiServices.VectorStore, aiServices.LLMService, prompts,
		services.WithTopK(settings.Retrieval.TopK),
	)
	ingest := services.NewIngestService(loader, normaliser, registry, orders,
		services.WithProgress(progress),
		services.WithRecordStrictness(settings.Orders.Strictness),
	)
	router := services.NewRouter(registry,
		services.WithResponseMode(settings.Retrieval.ResponseMode),
		services.WithExactLookup(settings.Orders.ExactLookup),
	)

	var warnings []string
	if !settings.Sources.HasOrderRecords() {
		warnings = append(warnings, "sources.order_records is not set: return eligibility has no orders to check")
	}

	return &cli.Runtime{
		Ingest:      ingest,
		Router:      router,
		Eligibility: services.NewEligibilityEngine(orders),
		Warnings:    warnings,
		Close:       closeAll,
	}, nil
}

// newEligibilityRuntime loads only the order records table. It never builds
// an index or contacts an AI provider.
func newEligibilityRuntime(_ context.Context, configDir string, settings domain.AppSettings) (*cli.Runtime, error) {
	loader, err := sources.New(domain.SourceSettings{
		OrderRecords:     settings.Sources.OrderRecords,
		UniPDFLicenseKey: settings.Sources.UniPDFLicenseKey,
	})
	if err != nil {
		return nil, err
	}

	orders, err := newOrderStore(settings.Orders.Store, configDir)
	if err != nil {
		return nil, err
	}

	return &cli.Runtime{
		Ingest: services.NewIngestService(loader, nil, nil, orders,
			services.WithRecordStrictness(settings.Orders.Strictness),
		),
		Eligibility: services.NewEligibilityEngine(orders),
		Close:       orders.Close,
	}, nil
}

func newOrderStore(backend domain.OrderStoreBackend, configDir string) (driven.OrderStore, error) {
	switch backend {
	case domain.OrderStoreMemory, "":
		return memory.NewOrderStore(), nil
	case domain.OrderStoreSQLite:
		store, err := sqlite.NewStore(filepath.Join(configDir, dataDirName))
		if err != nil {
			return nil, fmt.Errorf("%w: order store: %v", domain.ErrConfiguration, err)
		}
		return store.OrderStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown order store %q", domain.ErrConfiguration, backend)
	}
}
