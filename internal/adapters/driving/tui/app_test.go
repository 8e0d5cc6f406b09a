package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

type mockRouter struct {
	queries []string
	err     error
}

func (m *mockRouter) Enter(session *domain.Session, d domain.Domain) string {
	if session.EnterDomain(d) {
		return domain.OrdersNotice
	}
	return ""
}

func (m *mockRouter) Route(
	_ context.Context, session *domain.Session, d domain.Domain, query string,
) (domain.Response, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return domain.Response{}, m.err
	}
	return domain.Response{Domain: d, Text: "re: " + query, Notice: m.Enter(session, d)}, nil
}

func newTestApp(t *testing.T) (*App, *mockRouter) {
	t.Helper()
	router := &mockRouter{}
	app, err := NewApp(&Ports{Router: router})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, router
}

// send applies msg and follows the navigation and answer messages produced by
// the returned command. Tests never send keys whose command blinks the cursor.
func send(t *testing.T, app *App, msg tea.Msg) *App {
	t.Helper()
	model, cmd := app.Update(msg)
	app = model.(*App)
	if cmd == nil {
		return app
	}
	switch next := cmd().(type) {
	case messages.AgentSelected, messages.ViewChanged, messages.AnswerReceived:
		return send(t, app, next)
	}
	return app
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	t.Run("missing router", func(t *testing.T) {
		app, err := NewApp(&Ports{})
		assert.ErrorIs(t, err, ErrMissingRouter)
		assert.Nil(t, app)
	})

	t.Run("nil ports", func(t *testing.T) {
		_, err := NewApp(nil)
		assert.ErrorIs(t, err, ErrMissingRouter)
	})

	t.Run("starts on menu", func(t *testing.T) {
		app, err := NewApp(&Ports{Router: &mockRouter{}})
		require.NoError(t, err)
		assert.Equal(t, messages.ViewMenu, app.CurrentView())
		assert.False(t, app.Ready())
		assert.Equal(t, "Initialising...", app.View())
	})
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Router: &mockRouter{}})
	require.NoError(t, err)

	app = send(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Select an agent:")
}

func TestApp_SelectAgentAndChat(t *testing.T) {
	app, router := newTestApp(t)

	app = send(t, app, runeKey("2"))
	require.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Contains(t, app.View(), "--- Using agent: pedidos ---")
	assert.Contains(t, app.View(), "Tip:")

	app.Update(runeKey("x"))
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"x"}, router.queries)
	assert.NoError(t, app.Err())
}

func TestApp_BackToMenu(t *testing.T) {
	app, _ := newTestApp(t)

	app = send(t, app, runeKey("1"))
	require.Equal(t, messages.ViewChat, app.CurrentView())

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Help(t *testing.T) {
	app, _ := newTestApp(t)

	app = send(t, app, runeKey("?"))
	require.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Preguntas y Respuestas")

	app = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_AnswerErrorIsRecorded(t *testing.T) {
	app, router := newTestApp(t)
	router.err = domain.ErrGenerationFailure

	app = send(t, app, runeKey("3"))
	app.Update(runeKey("hola"))
	app = send(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.ErrorIs(t, app.Err(), domain.ErrGenerationFailure)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"quit message", messages.Quit{}},
		{"menu exit", runeKey("0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			_, cmd := app.Update(tt.msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "menu", messages.ViewMenu.String())
	assert.Equal(t, "chat", messages.ViewChat.String())
	assert.Equal(t, "help", messages.ViewHelp.String())
	assert.Equal(t, "unknown", messages.ViewType(99).String())
}
