// Package qdrant provides a vector store backed by a Qdrant server over its
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second

	// upsertBatch caps the number of points sent per request.
	upsertBatch = 256
)

// Payload keys written alongside each point.
const (
	payloadText = "text"
	payloadSeq  = "seq"
	payloadAttr = "attributes"
)

// Config holds connection settings.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Store implements driven.VectorStore against Qdrant collections using
// cosine distance.
type Store struct {
	client  *http.Client
	baseURL string
	apiKey  string

	mu   sync.Mutex
	next map[string]int // next insertion sequence per collection
}

// New creates a Qdrant-backed store. No request is made until first use.
func New(cfg Config) *Store {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		next:    make(map[string]int),
	}
}

// Reset drops the collection if it exists and recreates it empty.
func (s *Store) Reset(ctx context.Context, collection string, dimensions int) error {
	if dimensions < 1 {
		return fmt.Errorf("qdrant: %w: dimensions must be positive", domain.ErrInvalidInput)
	}
	if err := s.Drop(ctx, collection); err != nil {
		return err
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	if err := s.do(ctx, http.MethodPut, collectionPath(collection), body, nil); err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", collection, err)
	}

	s.mu.Lock()
	s.next[collection] = 0
	s.mu.Unlock()
	return nil
}

type pointBody struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert writes points in batches and waits for each batch to be applied.
func (s *Store) Upsert(ctx context.Context, collection string, points []driven.VectorPoint) error {
	s.mu.Lock()
	seq := s.next[collection]
	s.next[collection] = seq + len(points)
	s.mu.Unlock()

	for start := 0; start < len(points); start += upsertBatch {
		end := min(start+upsertBatch, len(points))

		batch := make([]pointBody, 0, end-start)
		for i, p := range points[start:end] {
			batch = append(batch, pointBody{
				ID:     p.ID,
				Vector: p.Vector,
				Payload: map[string]any{
					payloadText: p.Unit.Text,
					payloadSeq:  seq + start + i,
					payloadAttr: p.Unit.Attributes,
				},
			})
		}

		path := collectionPath(collection) + "/points?wait=true"
		if err := s.do(ctx, http.MethodPut, path, map[string]any{"points": batch}, nil); err != nil {
			return fmt.Errorf("qdrant: upsert into %s: %w", collection, err)
		}
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Query runs a cosine search. Results with equal scores are ordered by
// insertion sequence.
func (s *Store) Query(ctx context.Context, collection string, vector []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, nil
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": []string{payloadSeq},
		"with_vector":  false,
	}

	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, collectionPath(collection)+"/points/search", body, &resp); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("qdrant: collection %s: %w", collection, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("qdrant: search %s: %w", collection, err)
	}

	type ranked struct {
		hit driven.VectorHit
		seq float64
	}
	results := make([]ranked, 0, len(resp.Result))
	for _, r := range resp.Result {
		seq, _ := r.Payload[payloadSeq].(float64)
		results = append(results, ranked{
			hit: driven.VectorHit{ID: fmt.Sprint(r.ID), Score: r.Score},
			seq: seq,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].hit.Score != results[j].hit.Score {
			return results[i].hit.Score > results[j].hit.Score
		}
		return results[i].seq < results[j].seq
	})

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = r.hit
	}
	return hits, nil
}

// Drop deletes the collection. A missing collection is not an error.
func (s *Store) Drop(ctx context.Context, collection string) error {
	err := s.do(ctx, http.MethodDelete, collectionPath(collection), nil, nil)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("qdrant: drop %s: %w", collection, err)
	}

	s.mu.Lock()
	delete(s.next, collection)
	s.mu.Unlock()
	return nil
}

// Ping checks that the server answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/collections", nil, nil)
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// statusError carries a non-2xx reply.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func collectionPath(name string) string {
	return "/collections/" + url.PathEscape(name)
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
