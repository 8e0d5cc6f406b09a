package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eligibilityCmd = &cobra.Command{
	Use:   "eligibility <customer_id> <product>",
	Short: "Check whether an order can be returned",
	Long: `Evaluate the return policy for the first order of product placed by
customer_id. The decision is made by fixed rules over the order records:
excluded categories, the 30 day window and manual review for cash payments.
Only sources.order_records is read; no language model is contacted.

Example:
  deskagent eligibility C-001 "Auriculares Bluetooth"`,
	Args: cobra.ExactArgs(2),
	RunE: runEligibility,
}

func init() {
	eligibilityCmd.Flags().Bool("outcome", false, "print the outcome code before the message")
	rootCmd.AddCommand(eligibilityCmd)
}

func runEligibility(cmd *cobra.Command, args []string) error {
	showOutcome, err := cmd.Flags().GetBool("outcome")
	if err != nil {
		return fmt.Errorf("getting outcome flag: %w", err)
	}

	rt, err := loadEligibilityRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Ingest.LoadOrders(cmd.Context()); err != nil {
		return err
	}

	result, err := rt.Eligibility.Evaluate(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showOutcome {
		fmt.Fprintf(out, "[%s] ", result.Outcome)
	}
	fmt.Fprintln(out, result.Message())
	return nil
}
