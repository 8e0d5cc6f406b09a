package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the agent indexes",
	Long: `Load every configured source, build each agent's index and load the
order records. Use --domain to rebuild a single agent.

With the qdrant backend the collections are kept after the command exits.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringP("domain", "d", "", "rebuild only this agent")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	raw, err := cmd.Flags().GetString("domain")
	if err != nil {
		return fmt.Errorf("getting domain flag: %w", err)
	}

	out := cmd.OutOrStdout()
	rt, err := loadRuntime(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	var stats []driving.IndexStats
	if raw != "" {
		d, err := domain.ParseDomain(raw)
		if err != nil {
			return err
		}
		st, err := rt.Ingest.Build(cmd.Context(), d)
		if err != nil {
			return err
		}
		stats = append(stats, st)
	} else {
		fmt.Fprintln(out, "Creating indexes for all agents...")
		if stats, err = rt.Ingest.BuildAll(cmd.Context()); err != nil {
			return err
		}
	}

	for _, st := range stats {
		fmt.Fprintf(out, "  %-14s %d units\n", st.Domain.AgentName(), st.Units)
	}
	return nil
}
