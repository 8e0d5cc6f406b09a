// Package cli implements the deskagent command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configDir string
	verbose   bool
)

// Runtime holds the services built from the current settings.
type Runtime struct {
	Ingest      driving.IngestService
	Router      driving.QueryRouter
	Eligibility driving.EligibilityService

	// Warnings are non-fatal setup problems to show the user.
	Warnings []string

	// Close releases provider connections and stores. May be nil.
	Close func() error
}

// SettingsFactory opens the settings service stored in configDir.
type SettingsFactory func(configDir string) (driving.SettingsService, error)

// RuntimeFactory builds the services for settings loaded from configDir.
// progress is called when a domain index starts building.
type RuntimeFactory func(
	ctx context.Context, configDir string, settings domain.AppSettings, progress func(domain.Domain),
) (*Runtime, error)

// EligibilityFactory builds the order store and rule engine only. The
// returned Runtime has no Router and its Ingest only supports LoadOrders.
type EligibilityFactory func(ctx context.Context, configDir string, settings domain.AppSettings) (*Runtime, error)

var (
	newSettings    SettingsFactory
	newRuntime     RuntimeFactory
	newEligibility EligibilityFactory
)

// Configure sets the factories used by commands.
func Configure(settings SettingsFactory, runtime RuntimeFactory, eligibility EligibilityFactory) {
	newSettings = settings
	newRuntime = runtime
	newEligibility = eligibility
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "deskagent",
	Short: "Customer support assistant for returns, orders and FAQs",
	Long: `deskagent answers customer support questions from three knowledge areas:

  1 - Devoluciones            returns policy documents
  2 - Pedidos                 customer order records
  3 - Preguntas y Respuestas  frequently asked questions

Each area has its own index. Return eligibility is decided by fixed rules
over the order records, never by the language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return loadEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.deskagent)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveConfigDir returns the --config directory or the default one.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return filepath.Abs(configDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: home directory: %v", domain.ErrConfiguration, err)
	}
	return filepath.Join(home, domain.ConfigDirName), nil
}

// loadEnv reads .env from the working directory and then from the config
// directory. Variables already set win.
func loadEnv() error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	for _, p := range []string{".env", filepath.Join(dir, ".env")} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: load %s: %v", domain.ErrConfiguration, p, err)
		}
	}
	return nil
}

func settingsService() (driving.SettingsService, error) {
	if newSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	return newSettings(dir)
}

// loadRuntime validates settings and builds services. Progress lines go to w.
func loadRuntime(ctx context.Context, w io.Writer) (*Runtime, error) {
	if newSettings == nil || newRuntime == nil {
		return nil, errors.New("runtime not configured")
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	svc, err := newSettings(dir)
	if err != nil {
		return nil, err
	}
	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "Initializing %s and embeddings...\n", providerLabel(settings.LLM.Provider))
	rt, err := newRuntime(ctx, dir, *settings, func(d domain.Domain) {
		fmt.Fprintf(w, "Creating index for %s...\n", d.AgentName())
	})
	if err != nil {
		return nil, err
	}
	for _, warning := range rt.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return rt, nil
}

// loadEligibilityRuntime builds what return eligibility needs without
// touching the indexes or any AI provider.
func loadEligibilityRuntime(ctx context.Context) (*Runtime, error) {
	if newSettings == nil || newEligibility == nil {
		return nil, errors.New("eligibility runtime not configured")
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	svc, err := newSettings(dir)
	if err != nil {
		return nil, err
	}
	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.ValidateRecords(); err != nil {
		return nil, err
	}
	return newEligibility(ctx, dir, *settings)
}

func closeRuntime(rt *Runtime) {
	if rt == nil || rt.Close == nil {
		return
	}
	if err := rt.Close(); err != nil {
		logger.Warn("close runtime: %v", err)
	}
}

func providerLabel(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOllama:
		return "Ollama"
	case domain.AIProviderOpenAI:
		return "OpenAI"
	default:
		return "LLM"
	}
}
