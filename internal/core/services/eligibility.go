package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Ensure EligibilityEngine implements the interface.
var _ driving.EligibilityService = (*EligibilityEngine)(nil)

// orderDateLayouts are tried in order. Layouts without a zone are read in
// local time. Slash dates are month first; day first is only reached when
// the first number cannot be a month (13/03/2024).
var orderDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2/1/2006",
	"1/2/2006 15:04:05",
	"2/1/2006 15:04:05",
	"1/2/2006 15:04",
	"2/1/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"20060102",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// EligibilityEngine applies the return policy to stored orders.
// Rules run in a fixed order and the first match decides.
type EligibilityEngine struct {
	orders driven.OrderStore
	now    func() time.Time
}

// EligibilityOption configures the engine.
type EligibilityOption func(*EligibilityEngine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EligibilityOption {
	return func(e *EligibilityEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEligibilityEngine creates an engine over orders.
func NewEligibilityEngine(orders driven.OrderStore, opts ...EligibilityOption) *EligibilityEngine {
	e := &EligibilityEngine{orders: orders, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate decides whether customerID may return productName.
func (e *EligibilityEngine) Evaluate(
	ctx context.Context, customerID, productName string,
) (domain.EligibilityResult, error) {
	product := domain.NormaliseKey(productName)
	result := domain.EligibilityResult{CustomerID: customerID, Product: product}

	if strings.TrimSpace(customerID) == "" || product == "" {
		return result, fmt.Errorf("evaluate: %w: customer id and product are required", domain.ErrInvalidInput)
	}

	record, err := e.orders.Find(ctx, customerID, product)
	if errors.Is(err, domain.ErrNotFound) {
		result.Outcome = domain.OutcomeNotFound
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("evaluate: %w", err)
	}

	result.Category = record.Category
	result.PaymentMethod = record.PaymentMethod

	if domain.ExcludedCategories[domain.NormaliseKey(record.Category)] {
		result.Outcome = domain.OutcomeCategoryExcluded
		return result, nil
	}

	ordered, ok := ParseOrderDate(record.OrderDate)
	if !ok {
		logger.Debug("Unparseable order date %q for customer %s", record.OrderDate, customerID)
		result.Outcome = domain.OutcomeDateUnparseable
		return result, nil
	}

	result.DaysElapsed = daysBetween(ordered, e.now())
	switch {
	case result.DaysElapsed > domain.ReturnWindowDays:
		result.Outcome = domain.OutcomeWindowExpired
	case domain.NormaliseKey(record.PaymentMethod) == domain.ManualReviewPaymentMethod:
		result.Outcome = domain.OutcomeManualReviewRequired
	default:
		result.Outcome = domain.OutcomeEligible
	}
	return result, nil
}

// ParseOrderDate reads a raw order date in any supported layout.
func ParseOrderDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// daysBetween counts calendar days from from to to in local time.
func daysBetween(from, to time.Time) int {
	from, to = from.In(time.Local), to.In(time.Local)
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
