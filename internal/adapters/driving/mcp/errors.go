// Package mcp provides an MCP (Model Context Protocol) server adapter for deskagent.
// It lets AI assistants check return eligibility and ask the support agents.
package mcp

import "errors"

// ErrMissingEligibilityService is returned when the eligibility service is not provided.
var ErrMissingEligibilityService = errors.New("mcp: eligibility service is required")
