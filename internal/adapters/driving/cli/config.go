package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Keys use dot notation, for example:
  deskagent config set sources.faq ./data/faq.json
  deskagent config set llm.provider openai
  deskagent config set vector_store.backend qdrant`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and reach the AI providers",
	Args:  cobra.NoArgs,
	RunE:  runConfigCheck,
}

func init() {
	configCheckCmd.Flags().Bool("offline", false, "skip contacting providers")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")

	fmt.Fprintln(out, "\n[Sources]")
	for _, d := range domain.AllDomains() {
		fmt.Fprintf(out, "  %s: %s\n", d.AgentName(), orUnset(settings.Sources.Path(d)))
	}
	fmt.Fprintf(out, "  order records: %s\n", orUnset(settings.Sources.OrderRecords))
	fmt.Fprintf(out, "  pdf backend: %s\n", settings.Sources.PDFBackend)
	fmt.Fprintf(out, "  prompts: %s\n", settings.PromptsDir)

	fmt.Fprintln(out, "\n[Retrieval]")
	fmt.Fprintf(out, "  chunk size: %d tokens (%s)\n", settings.Chunker.MaxTokens, settings.Chunker.Encoding)
	fmt.Fprintf(out, "  top k: %d\n", settings.Retrieval.TopK)
	fmt.Fprintf(out, "  response mode: %s\n", settings.Retrieval.ResponseMode)

	fmt.Fprintln(out, "\n[Orders]")
	fmt.Fprintf(out, "  store: %s\n", settings.Orders.Store)
	fmt.Fprintf(out, "  strictness: %s\n", settings.Orders.Strictness)
	fmt.Fprintf(out, "  exact lookup: %t\n", settings.Orders.ExactLookup)

	fmt.Fprintln(out, "\n[Embedding]")
	fmt.Fprintf(out, "  provider: %s\n", settings.Embedding.Provider)
	fmt.Fprintf(out, "  model: %s\n", settings.Embedding.Model)
	printProviderAccess(cmd, settings.Embedding.Provider, settings.Embedding.BaseURL, settings.Embedding.APIKey)

	fmt.Fprintln(out, "\n[LLM]")
	fmt.Fprintf(out, "  provider: %s\n", settings.LLM.Provider)
	fmt.Fprintf(out, "  model: %s\n", settings.LLM.Model)
	printProviderAccess(cmd, settings.LLM.Provider, settings.LLM.BaseURL, settings.LLM.APIKey)
	fmt.Fprintf(out, "  timeout: %s\n", settings.LLM.Timeout)

	fmt.Fprintln(out, "\n[Vector Store]")
	fmt.Fprintf(out, "  backend: %s\n", settings.VectorStore.Backend)
	if settings.VectorStore.Backend == domain.VectorBackendQdrant {
		fmt.Fprintf(out, "  url: %s\n", settings.VectorStore.QdrantURL)
		if settings.VectorStore.QdrantAPIKey != "" {
			fmt.Fprintf(out, "  api key: %s\n", maskAPIKey(settings.VectorStore.QdrantAPIKey))
		}
	}
	return nil
}

func printProviderAccess(cmd *cobra.Command, p domain.AIProvider, baseURL, apiKey string) {
	out := cmd.OutOrStdout()
	if baseURL != "" {
		fmt.Fprintf(out, "  base url: %s\n", baseURL)
	}
	if !p.RequiresAPIKey() {
		return
	}
	if apiKey == "" {
		fmt.Fprintln(out, "  api key: (not set)")
		return
	}
	fmt.Fprintf(out, "  api key: %s\n", maskAPIKey(apiKey))
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, "config.toml"))
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	offline, err := cmd.Flags().GetBool("offline")
	if err != nil {
		return fmt.Errorf("getting offline flag: %w", err)
	}
	svc, err := settingsService()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := svc.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Settings are valid")

	if offline {
		return nil
	}
	if err := svc.CheckProviders(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Providers are reachable")
	return nil
}

// maskAPIKey masks an API key for display, showing only first and last 4 chars.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
