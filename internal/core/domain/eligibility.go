package domain

import "fmt"

// Return policy constants.
const (
	// ReturnWindowDays is the maximum age of an order that can be returned.
	ReturnWindowDays = 30

	// ManualReviewPaymentMethod marks orders that need a human to approve the refund.
	ManualReviewPaymentMethod = "efectivo"
)

// ExcludedCategories lists the normalised categories that are never returnable.
var ExcludedCategories = map[string]bool{
	"higiene":   true,
	"alimentos": true,
}

// EligibilityOutcome is the result of evaluating the return policy.
type EligibilityOutcome string

// Outcomes in policy order; the first matching rule wins.
const (
	OutcomeNotFound             EligibilityOutcome = "NOT_FOUND"
	OutcomeCategoryExcluded     EligibilityOutcome = "CATEGORY_EXCLUDED"
	OutcomeDateUnparseable      EligibilityOutcome = "DATE_UNPARSEABLE"
	OutcomeWindowExpired        EligibilityOutcome = "WINDOW_EXPIRED"
	OutcomeManualReviewRequired EligibilityOutcome = "MANUAL_REVIEW_REQUIRED"
	OutcomeEligible             EligibilityOutcome = "ELIGIBLE"
)

// String returns the string representation.
func (o EligibilityOutcome) String() string {
	return string(o)
}

// Returnable reports whether the order may be returned, possibly after review.
func (o EligibilityOutcome) Returnable() bool {
	return o == OutcomeEligible || o == OutcomeManualReviewRequired
}

// EligibilityResult describes a policy decision for one order.
type EligibilityResult struct {
	Outcome       EligibilityOutcome
	CustomerID    string
	Product       string
	Category      string
	PaymentMethod string
	DaysElapsed   int
}

// Message renders the customer-facing explanation of the decision.
func (r EligibilityResult) Message() string {
	switch r.Outcome {
	case OutcomeNotFound:
		return fmt.Sprintf("No se encontró ningún pedido de '%s' para el cliente %s.", r.Product, r.CustomerID)
	case OutcomeCategoryExcluded:
		return fmt.Sprintf("❌ El producto '%s' pertenece a la categoría '%s', que no admite devoluciones.",
			r.Product, r.Category)
	case OutcomeDateUnparseable:
		return "⚠️ No se pudo interpretar la fecha de compra del pedido. Verifica el formato en 'order_date'."
	case OutcomeWindowExpired:
		return fmt.Sprintf("❌ Han pasado %d días desde la compra. Solo se admiten devoluciones dentro de %d días.",
			r.DaysElapsed, ReturnWindowDays)
	case OutcomeManualReviewRequired:
		return fmt.Sprintf("⚠️ Pedido elegible, pero requiere revisión manual por haber sido pagado en %s. "+
			"(%d días desde la compra).", ManualReviewPaymentMethod, r.DaysElapsed)
	case OutcomeEligible:
		return fmt.Sprintf("✅ El producto '%s' del cliente %s es elegible para devolución. (%d días desde la compra).",
			r.Product, r.CustomerID, r.DaysElapsed)
	default:
		return unknownDescription
	}
}
