package domain

import "strings"

// OrderRecord is one purchase as seen by the return policy.
// Product and Category are stored normalised (see NormaliseKey).
type OrderRecord struct {
	CustomerID    string
	Product       string
	Category      string
	Price         string
	Quantity      string
	OrderDate     string // raw, parsed at evaluation time
	PaymentMethod string

	// Attributes holds every column of the source row.
	Attributes map[string]string
}

// NormaliseKey lower-cases and trims a lookup key.
func NormaliseKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether the record belongs to customerID and the
// already-normalised product. Customer ids compare exactly.
func (r OrderRecord) Matches(customerID, product string) bool {
	return r.CustomerID == customerID && r.Product == product
}

// Clone returns a copy that shares no maps with r.
func (r OrderRecord) Clone() OrderRecord {
	if r.Attributes != nil {
		attrs := make(map[string]string, len(r.Attributes))
		for k, v := range r.Attributes {
			attrs[k] = v
		}
		r.Attributes = attrs
	}
	return r
}
