package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// App is the chat TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	// session is shared by every agent for the lifetime of the program.
	session *domain.Session

	menuView *menu.View
	chatView *chat.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	session := domain.NewSession()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		session:     session,
		menuView:    menu.NewView(s, km),
		chatView:    chat.NewView(s, km, ports.Router, session),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("deskagent"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.AgentSelected:
		a.currentView = messages.ViewChat
		a.err = nil
		return a, tea.Batch(a.chatView.Enter(msg.Domain), a.chatView.Init())

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.AnswerReceived:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewChat {
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Agents:
  1           Devoluciones (returns policy)
  2           Pedidos (order lookup)
  3           Preguntas y Respuestas (FAQ)
  0, q        Exit

Chat:
  enter       Send question
  pgup/pgdn   Scroll conversation
  back, esc   Return to agent menu
  exit        Quit

  ctrl+c      Quit from anywhere

[esc] back to menu`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
