// Package chat provides the conversation view for one agent.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

// chromeHeight is the number of lines used by the header, input and status bar.
const chromeHeight = 7

type role int

const (
	roleUser role = iota
	roleAgent
	roleNotice
	roleError
)

type turn struct {
	role role
	text string
}

// View is the chat with the selected agent.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	statusbar *status.Bar
	viewport  viewport.Model

	router  driving.QueryRouter
	session *domain.Session
	ctx     context.Context

	agent   domain.Domain
	turns   []turn
	pending bool

	width  int
	height int
	ready  bool
}

// NewView creates a chat view. All agents share session.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	router driving.QueryRouter,
	session *domain.Session,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if session == nil {
		session = domain.NewSession()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewChatInput(s),
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 24-chromeHeight),
		router:    router,
		session:   session,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Enter starts a conversation with d, clearing the previous transcript.
func (v *View) Enter(d domain.Domain) tea.Cmd {
	v.agent = d
	v.turns = nil
	v.pending = false
	v.input.Reset()
	v.statusbar.Clear()
	v.statusbar.SetAgent(d.AgentName())

	if notice := v.router.Enter(v.session, d); notice != "" {
		v.turns = append(v.turns, turn{role: roleNotice, text: notice})
	}
	v.refresh()
	return v.input.Focus()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, backToMenu
	case keymap.Matches(keyStr, v.keymap.ScrollUp), keymap.Matches(keyStr, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	query := v.input.Value()
	if query == "" || v.pending {
		return nil
	}
	v.input.Reset()

	switch strings.ToLower(query) {
	case "back":
		return backToMenu
	case "exit":
		return tea.Quit
	}

	v.turns = append(v.turns, turn{role: roleUser, text: query})
	v.pending = true
	v.statusbar.SetState(status.StateThinking)
	v.refresh()

	router, ctx, session, d := v.router, v.ctx, v.session, v.agent
	return func() tea.Msg {
		resp, err := router.Route(ctx, session, d, query)
		return messages.AnswerReceived{Domain: d, Query: query, Response: resp, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if msg.Domain != v.agent {
		return
	}
	v.pending = false

	if msg.Err != nil {
		v.turns = append(v.turns, turn{role: roleError, text: msg.Err.Error()})
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.refresh()
		return
	}

	v.statusbar.Clear()
	if msg.Response.Notice != "" {
		v.turns = append(v.turns, turn{role: roleNotice, text: msg.Response.Notice})
	}
	v.turns = append(v.turns, turn{role: roleAgent, text: msg.Response.Text})
	v.refresh()
}

func backToMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// refresh re-renders the transcript and scrolls to the latest turn.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-2, 20))

	parts := make([]string, 0, len(v.turns))
	for _, t := range v.turns {
		switch t.role {
		case roleUser:
			parts = append(parts, v.styles.UserPrompt.Render("You: ")+wrap.Render(t.text))
		case roleAgent:
			parts = append(parts, v.styles.AgentName.Render(v.agent.AgentName()+":")+"\n"+wrap.Render(t.text))
		case roleNotice:
			parts = append(parts, v.styles.Notice.Render(t.text))
		case roleError:
			parts = append(parts, v.styles.Error.Render("Error: "+t.text))
		}
	}
	return strings.Join(parts, "\n\n")
}

// View renders the chat.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("--- Using agent: " + v.agent.AgentName() + " ---"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	v.viewport.Height = max(height-chromeHeight, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Agent returns the active agent.
func (v *View) Agent() domain.Domain {
	return v.agent
}

// Pending reports whether a question is waiting for its answer.
func (v *View) Pending() bool {
	return v.pending
}

// Transcript returns the conversation as plain text, one turn per line.
func (v *View) Transcript() []string {
	lines := make([]string, len(v.turns))
	for i, t := range v.turns {
		switch t.role {
		case roleUser:
			lines[i] = "You: " + t.text
		case roleAgent:
			lines[i] = v.agent.AgentName() + ": " + t.text
		case roleNotice:
			lines[i] = "Notice: " + t.text
		case roleError:
			lines[i] = "Error: " + t.text
		}
	}
	return lines
}
