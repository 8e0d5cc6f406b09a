package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// mockEligibilityService is a mock implementation of driving.EligibilityService.
type mockEligibilityService struct {
	result domain.EligibilityResult
	err    error
	calls  [][2]string
}

func (m *mockEligibilityService) Evaluate(
	_ context.Context,
	customerID string,
	productName string,
) (domain.EligibilityResult, error) {
	m.calls = append(m.calls, [2]string{customerID, productName})
	return m.result, m.err
}

// mockRouter is a mock implementation of driving.QueryRouter.
type mockRouter struct {
	mu      sync.Mutex
	domains []domain.Domain
	err     error
}

func (m *mockRouter) Enter(session *domain.Session, d domain.Domain) string {
	if session.EnterDomain(d) {
		return domain.OrdersNotice
	}
	return ""
}

func (m *mockRouter) Route(
	_ context.Context,
	session *domain.Session,
	d domain.Domain,
	query string,
) (domain.Response, error) {
	m.mu.Lock()
	m.domains = append(m.domains, d)
	m.mu.Unlock()
	if m.err != nil {
		return domain.Response{}, m.err
	}
	return domain.Response{Domain: d, Text: "re: " + query, Notice: m.Enter(session, d)}, nil
}
