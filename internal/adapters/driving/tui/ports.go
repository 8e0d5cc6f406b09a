// Package tui provides the interactive terminal chat for deskagent.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Router answers questions for the selected agent.
	Router driving.QueryRouter
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Router == nil {
		return ErrMissingRouter
	}
	return nil
}
