package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"ready", StateReady, "", "Ready"},
		{"thinking", StateThinking, "", "Thinking..."},
		{"error with message", StateError, "ollama down", "Error: ollama down"},
		{"error without message", StateError, "", "Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetAgent("pedidos")
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			view := bar.View()
			assert.Contains(t, view, "pedidos")
			assert.Contains(t, view, tt.want)
			assert.Contains(t, view, "esc: agents")
		})
	}
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
