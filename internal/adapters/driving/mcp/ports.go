package mcp

import (
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Eligibility decides return eligibility.
	Eligibility driving.EligibilityService

	// Router answers questions. Without it the ask tool is not registered.
	Router driving.QueryRouter
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Eligibility == nil {
		return ErrMissingEligibilityService
	}
	return nil
}
