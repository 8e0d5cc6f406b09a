// Package memory provides an in-process vector store using brute-force
// cosine similarity.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type point struct {
	id     string
	vector []float32
	norm   float64
}

type collection struct {
	dims   int
	points []point
	byID   map[string]int
}

// Store keeps one collection per name in memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Reset drops the collection if present and creates it empty.
func (s *Store) Reset(_ context.Context, name string, dimensions int) error {
	if dimensions < 0 {
		return fmt.Errorf("reset %s: %w: negative dimensions", name, domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = &collection{dims: dimensions, byID: make(map[string]int)}
	return nil
}

// Upsert inserts or replaces points. Replaced points keep their position.
func (s *Store) Upsert(_ context.Context, name string, points []driven.VectorPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("upsert %s: %w: collection", name, domain.ErrNotFound)
	}
	for _, p := range points {
		if c.dims > 0 && len(p.Vector) != c.dims {
			return fmt.Errorf("upsert %s: %w: vector has %d dimensions, want %d",
				name, domain.ErrInvalidInput, len(p.Vector), c.dims)
		}
	}
	for _, p := range points {
		vec := make([]float32, len(p.Vector))
		copy(vec, p.Vector)
		pt := point{id: p.ID, vector: vec, norm: norm(vec)}
		if i, exists := c.byID[p.ID]; exists {
			c.points[i] = pt
			continue
		}
		c.byID[p.ID] = len(c.points)
		c.points = append(c.points, pt)
	}
	return nil
}

// Query ranks every point by cosine similarity. Equal scores keep insertion order.
func (s *Store) Query(_ context.Context, name string, vector []float32, k int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("query %s: %w: collection", name, domain.ErrNotFound)
	}
	if k <= 0 || len(c.points) == 0 {
		return nil, nil
	}

	qnorm := norm(vector)
	hits := make([]driven.VectorHit, len(c.points))
	for i, p := range c.points {
		hits[i] = driven.VectorHit{ID: p.id, Score: cosine(p.vector, p.norm, vector, qnorm)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Drop removes the collection.
func (s *Store) Drop(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Close releases all collections.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]*collection)
	return nil
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	dot := 0.0
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
