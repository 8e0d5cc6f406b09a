package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deskagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView_Items(t *testing.T) {
	v := NewView(nil, nil)

	items := v.Items()
	require.Len(t, items, 5)
	assert.Equal(t, Item{Key: "1", Label: "Devoluciones", Domain: domain.DomainReturns}, items[0])
	assert.Equal(t, domain.DomainOrders, items[1].Domain)
	assert.Equal(t, "Preguntas y Respuestas", items[2].Label)
	assert.Equal(t, messages.ViewHelp, items[3].View)
	assert.True(t, items[4].Quit)
}

func TestView_View(t *testing.T) {
	v := NewView(nil, nil)
	assert.Equal(t, "Initialising...", v.View())

	v.SetDimensions(80, 24)
	out := v.View()
	assert.Contains(t, out, "Select an agent:")
	assert.Contains(t, out, "1 - Devoluciones")
	assert.Contains(t, out, "2 - Pedidos")
	assert.Contains(t, out, "3 - Preguntas y Respuestas")
	assert.Contains(t, out, "0 - Exit")
	assert.Contains(t, out, "> ")
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, nil)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.Selected())

	v, _ = v.Update(runeKey("j"))
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.Selected())

	v, _ = v.Update(runeKey("k"))
	assert.Equal(t, 1, v.Selected())

	for range 10 {
		v, _ = v.Update(runeKey("j"))
	}
	assert.Equal(t, len(v.Items())-1, v.Selected())
}

func TestView_EnterSelectsAgent(t *testing.T) {
	v := NewView(nil, nil)
	v, _ = v.Update(runeKey("j"))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.AgentSelected{Domain: domain.DomainOrders}, cmd())
}

func TestView_DigitShortcuts(t *testing.T) {
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"1", messages.AgentSelected{Domain: domain.DomainReturns}},
		{"2", messages.AgentSelected{Domain: domain.DomainOrders}},
		{"3", messages.AgentSelected{Domain: domain.DomainFAQ}},
		{"?", messages.ViewChanged{View: messages.ViewHelp}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := NewView(nil, nil)
			_, cmd := v.Update(runeKey(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestView_Quit(t *testing.T) {
	for _, key := range []string{"0", "q"} {
		t.Run(key, func(t *testing.T) {
			v := NewView(nil, nil)
			_, cmd := v.Update(runeKey(key))
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestView_UnknownKeyIgnored(t *testing.T) {
	v := NewView(nil, nil)
	_, cmd := v.Update(runeKey("x"))
	assert.Nil(t, cmd)
}
