package domain

// RetrievableUnit is the smallest piece of text stored in a domain index.
// Units are treated as immutable once a normaliser has produced them.
type RetrievableUnit struct {
	// Text is the content that gets embedded and shown to the LLM.
	Text string

	// Attributes carries structured fields, e.g. every column of an order row.
	Attributes map[string]string
}

// NewUnit creates a unit with a private copy of attrs.
func NewUnit(text string, attrs map[string]string) RetrievableUnit {
	return RetrievableUnit{Text: text, Attributes: copyAttributes(attrs)}
}

// Clone returns a deep copy of the unit.
func (u RetrievableUnit) Clone() RetrievableUnit {
	return NewUnit(u.Text, u.Attributes)
}

func copyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
