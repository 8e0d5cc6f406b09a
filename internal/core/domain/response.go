package domain

// ResponseMode selects how retrieved context is turned into an answer.
type ResponseMode string

// Response modes.
const (
	// ResponseModeCompact answers once from all retrieved units.
	ResponseModeCompact ResponseMode = "compact"

	// ResponseModeRefine answers from the first unit and refines the answer
	// with each following unit.
	ResponseModeRefine ResponseMode = "refine"
)

// IsValid returns true if the mode is recognised.
func (m ResponseMode) IsValid() bool {
	return m == ResponseModeCompact || m == ResponseModeRefine
}

// String returns the string representation.
func (m ResponseMode) String() string {
	return string(m)
}

// EmptyResponse is returned when nothing relevant was retrieved.
const EmptyResponse = "Empty Response"

// Response is the router's answer to one query.
type Response struct {
	Domain Domain
	Text   string

	// Notice is a one-time advisory shown before the answer, or empty.
	Notice string
}
