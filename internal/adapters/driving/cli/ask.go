package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question to one agent",
	Long: `Build the index for one agent and answer a single question.

The agent is chosen with --domain and accepts the identifier, the agent name
or the menu digit: returns|devoluciones|1, orders|pedidos|2, faq|3.

Examples:
  deskagent ask --domain faq "¿Cuánto tarda el envío?"
  deskagent ask -d pedidos "pedido 1042 de Ana"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringP("domain", "d", string(domain.DomainFAQ), "agent to ask")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	raw, err := cmd.Flags().GetString("domain")
	if err != nil {
		return fmt.Errorf("getting domain flag: %w", err)
	}
	d, err := domain.ParseDomain(raw)
	if err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("question cannot be empty")
	}

	rt, err := loadRuntime(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if _, err := rt.Ingest.Build(cmd.Context(), d); err != nil {
		return err
	}

	resp, err := rt.Router.Route(cmd.Context(), domain.NewSession(), d, query)
	if err != nil {
		return err
	}
	printResponse(cmd.OutOrStdout(), resp)
	return nil
}

func printResponse(w io.Writer, resp domain.Response) {
	if resp.Notice != "" {
		fmt.Fprintln(w, resp.Notice)
	}
	fmt.Fprintln(w, resp.Text)
}
