package domain

import (
	"fmt"
	"strings"
)

// Domain identifies a knowledge area with its own isolated index.
type Domain string

// Supported domains.
const (
	// DomainReturns answers questions about the returns policy.
	DomainReturns Domain = "returns"

	// DomainOrders looks up individual customer orders.
	DomainOrders Domain = "orders"

	// DomainFAQ answers frequently asked questions.
	DomainFAQ Domain = "faq"
)

// AllDomains returns every domain in menu order.
func AllDomains() []Domain {
	return []Domain{DomainReturns, DomainOrders, DomainFAQ}
}

// IsValid returns true if the domain is recognised.
func (d Domain) IsValid() bool {
	switch d {
	case DomainReturns, DomainOrders, DomainFAQ:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Domain) String() string {
	return string(d)
}

// AgentName returns the name the assistant uses for the domain's agent.
func (d Domain) AgentName() string {
	switch d {
	case DomainReturns:
		return "devoluciones"
	case DomainOrders:
		return "pedidos"
	case DomainFAQ:
		return "faq"
	default:
		return unknownDescription
	}
}

// Description returns the menu label for the domain.
func (d Domain) Description() string {
	switch d {
	case DomainReturns:
		return "Devoluciones"
	case DomainOrders:
		return "Pedidos"
	case DomainFAQ:
		return "Preguntas y Respuestas"
	default:
		return unknownDescription
	}
}

// MenuKey returns the digit that selects the domain in the agent menu.
func (d Domain) MenuKey() string {
	switch d {
	case DomainReturns:
		return "1"
	case DomainOrders:
		return "2"
	case DomainFAQ:
		return "3"
	default:
		return ""
	}
}

// Collection returns the vector collection name holding the domain's index.
func (d Domain) Collection() string {
	return "deskagent_" + string(d)
}

// ParseDomain resolves an identifier, agent name or menu digit to a Domain.
func ParseDomain(s string) (Domain, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllDomains() {
		if key == string(d) || key == d.AgentName() || key == d.MenuKey() {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: domain %q", ErrUnsupportedType, s)
}
