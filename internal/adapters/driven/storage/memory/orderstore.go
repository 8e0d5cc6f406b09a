package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure OrderStore implements the interface.
var _ driven.OrderStore = (*OrderStore)(nil)

// OrderStore keeps order records in a slice, in load order.
type OrderStore struct {
	mu      sync.RWMutex
	records []domain.OrderRecord
}

// NewOrderStore creates an empty in-memory order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// Replace discards existing records and stores records in the given order.
func (s *OrderStore) Replace(_ context.Context, records []domain.OrderRecord) error {
	cp := make([]domain.OrderRecord, len(records))
	for i, r := range records {
		cp[i] = r.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cp
	return nil
}

// Find returns the first matching record in load order.
func (s *OrderStore) Find(_ context.Context, customerID, product string) (domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product = domain.NormaliseKey(product)
	for _, r := range s.records {
		if r.Matches(customerID, product) {
			return r.Clone(), nil
		}
	}
	return domain.OrderRecord{}, domain.ErrNotFound
}

// Count returns the number of stored records.
func (s *OrderStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *OrderStore) Close() error {
	return nil
}
