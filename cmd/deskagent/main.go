// Command deskagent is a customer support assistant with one retrieval agent
// per knowledge area and a rule based return eligibility check.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/cli"
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.Configure(newSettings, newRuntime, newEligibilityRuntime)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, domain.ErrConfiguration) {
			return 2
		}
		return 1
	}
	return 0
}
