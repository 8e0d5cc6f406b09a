// Package domain defines the core business entities for deskagent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Domain: An isolated knowledge area (returns, orders, faq)
//   - Source: Raw input for a domain (pages, table rows, Q/A pairs)
//   - RetrievableUnit: The smallest indexed piece of text
//   - OrderRecord: A purchase evaluated by the return policy
//   - Session: Per-conversation state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
