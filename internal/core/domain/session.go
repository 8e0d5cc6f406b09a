package domain

import "sync/atomic"

// OrdersNotice is shown the first time a session enters the ORDERS domain.
const OrdersNotice = "Tip: include as much detail as you can about the order " +
	"(order id, buyer name, product and order date) so the right record is found."

// Session holds per-conversation state.
type Session struct {
	ordersEntered atomic.Bool
}

// NewSession creates a fresh session.
func NewSession() *Session {
	return &Session{}
}

// EnterDomain records that the session entered d and reports whether this is
// the first entry into ORDERS. It returns true at most once per session.
func (s *Session) EnterDomain(d Domain) bool {
	if d != DomainOrders {
		return false
	}
	return s.ordersEntered.CompareAndSwap(false, true)
}

// OrdersEntered reports whether the session has already entered ORDERS.
func (s *Session) OrdersEntered() bool {
	return s.ordersEntered.Load()
}
