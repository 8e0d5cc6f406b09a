package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown domain, source or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConfiguration indicates missing or invalid settings. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrSchema indicates a tabular source lacks required columns.
	// Returned wrapped in a *SchemaError.
	ErrSchema = errors.New("schema error")

	// ErrSourceUnreadable indicates a source file could not be read or parsed.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrEmbeddingFailure indicates the embedding provider failed.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailure indicates the LLM failed to produce an answer.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrIndexNotBuilt indicates a domain was queried before its index was built.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// SchemaError lists the required columns a tabular source is missing.
type SchemaError struct {
	Table   string
	Missing []string
}

// Error implements error.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: table %q is missing required columns: %s",
		ErrSchema, e.Table, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
