package driven

import (
	"context"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// VectorPoint is one embedded unit to store.
type VectorPoint struct {
	ID     string
	Vector []float32
	Unit   domain.RetrievableUnit
}

// VectorHit is one ranked search result.
type VectorHit struct {
	ID    string
	Score float64
}

// VectorStore stores vectors in named collections and searches them by
// cosine similarity. Collections never share points.
type VectorStore interface {
	// Reset drops the collection if present and creates it empty.
	Reset(ctx context.Context, collection string, dimensions int) error

	// Upsert inserts or replaces points in the collection.
	Upsert(ctx context.Context, collection string, points []VectorPoint) error

	// Query returns up to k point ids ranked by descending similarity.
	// Ties keep insertion order.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]VectorHit, error)

	// Drop removes the collection. Dropping a missing collection is not an error.
	Drop(ctx context.Context, collection string) error

	// Close releases resources.
	Close() error
}
