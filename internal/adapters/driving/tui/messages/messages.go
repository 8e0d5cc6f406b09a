// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the agent selection menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversation with the selected agent.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// AgentSelected is sent when the user picks an agent from the menu.
type AgentSelected struct {
	Domain domain.Domain
}

// AnswerReceived carries the router's answer back to the model.
type AnswerReceived struct {
	Domain   domain.Domain
	Query    string
	Response domain.Response
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
