package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the support agents",
	Long: `Build every agent index and start an interactive chat.

On a terminal the chat runs as a full screen interface. Use --plain (or pipe
input) for a line oriented loop:

  Select an agent with 1, 2 or 3, or 0 to exit.
  Type "back" to return to the agent menu and "exit" to quit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("plain", false, "use the line oriented chat instead of the terminal UI")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return fmt.Errorf("getting plain flag: %w", err)
	}

	out := cmd.OutOrStdout()
	rt, err := loadRuntime(cmd.Context(), out)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	fmt.Fprintln(out, "Creating indexes for all agents...")
	if _, err := rt.Ingest.BuildAll(cmd.Context()); err != nil {
		return err
	}

	if !plain && isTerminal() {
		return runChatTUI(cmd.Context(), rt)
	}
	loop := &chatLoop{router: rt.Router, in: cmd.InOrStdin(), out: out}
	return loop.Run(cmd.Context())
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runChatTUI(ctx context.Context, rt *Runtime) error {
	app, err := tui.NewApp(&tui.Ports{Router: rt.Router})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// chatLoop is the line oriented agent menu and chat.
type chatLoop struct {
	router driving.QueryRouter
	in     io.Reader
	out    io.Writer
}

// Run shows the agent menu until the user exits or input ends. Query errors
// are printed and the loop continues.
func (l *chatLoop) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(l.in)
	session := domain.NewSession()

	for {
		l.printMenu()
		fmt.Fprint(l.out, "Enter your choice: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == "0" {
			fmt.Fprintln(l.out, "Exiting...")
			return nil
		}
		d, ok := menuDomain(choice)
		if !ok {
			fmt.Fprintln(l.out, "Invalid choice. Try again.")
			continue
		}

		exit, err := l.converse(ctx, scanner, session, d)
		if err != nil || exit {
			return err
		}
	}
}

// converse runs the chat for one agent. It reports whether the user asked to
// exit the program.
func (l *chatLoop) converse(
	ctx context.Context, scanner *bufio.Scanner, session *domain.Session, d domain.Domain,
) (bool, error) {
	fmt.Fprintf(l.out, "\n--- Using agent: %s ---\n", d.AgentName())
	if notice := l.router.Enter(session, d); notice != "" {
		fmt.Fprintln(l.out, notice)
	}

	for {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		fmt.Fprint(l.out, "You: ")
		if !scanner.Scan() {
			return true, scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "":
			continue
		case "back":
			fmt.Fprintln(l.out, "Returning to agent menu...")
			return false, nil
		case "exit":
			fmt.Fprintln(l.out, "Exiting...")
			return true, nil
		}

		resp, err := l.router.Route(ctx, session, d, input)
		if err != nil {
			fmt.Fprintf(l.out, "Error: %v\n", err)
			continue
		}
		printResponse(l.out, resp)
	}
}

func (l *chatLoop) printMenu() {
	fmt.Fprintln(l.out, "\nSelect an agent:")
	for _, d := range domain.AllDomains() {
		fmt.Fprintf(l.out, "%s - %s\n", d.MenuKey(), d.Description())
	}
	fmt.Fprintln(l.out, "0 - Exit")
}

func menuDomain(choice string) (domain.Domain, bool) {
	for _, d := range domain.AllDomains() {
		if choice == d.MenuKey() {
			return d, true
		}
	}
	return "", false
}
