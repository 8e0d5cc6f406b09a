package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// pointNamespace seeds deterministic vector point ids.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("deskagent"))

// Index is the query side of one built domain index.
type Index interface {
	// Domain returns the domain the index belongs to.
	Domain() domain.Domain

	// Len returns the number of units in the index.
	Len() int

	// SemanticRetrieve returns up to k units nearest to text, best first.
	SemanticRetrieve(ctx context.Context, text string, k int) ([]domain.RetrievableUnit, error)

	// SemanticQuery retrieves context for text and asks the LLM for one answer.
	SemanticQuery(ctx context.Context, text string, mode domain.ResponseMode) (string, error)

	// Lookup finds the first unit, in storage order, whose id or customer_id
	// attribute equals key.
	Lookup(key string) (domain.RetrievableUnit, bool)
}

// IndexProvider hands out built indexes.
type IndexProvider interface {
	Get(d domain.Domain) (Index, error)
}

// IndexBuilder builds domain indexes.
type IndexBuilder interface {
	Build(ctx context.Context, d domain.Domain, units []domain.RetrievableUnit) (Index, error)
}

// Ensure IndexRegistry implements the interfaces.
var (
	_ IndexProvider = (*IndexRegistry)(nil)
	_ IndexBuilder  = (*IndexRegistry)(nil)
	_ Index         = (*IndexHandle)(nil)
)

// IndexRegistry owns one index per domain. Indexes never share units.
type IndexRegistry struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
	prompts  driven.PromptStore
	topK     int

	mu      sync.RWMutex
	handles map[domain.Domain]*IndexHandle
}

// RegistryOption configures the registry.
type RegistryOption func(*IndexRegistry)

// WithTopK sets how many units SemanticQuery retrieves.
func WithTopK(k int) RegistryOption {
	return func(r *IndexRegistry) {
		if k > 0 {
			r.topK = k
		}
	}
}

// NewIndexRegistry creates an empty registry.
// The llm and prompts parameters are optional (can be nil); without an LLM,
// SemanticQuery fails with domain.ErrLLMUnavailable.
func NewIndexRegistry(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	opts ...RegistryOption,
) *IndexRegistry {
	r := &IndexRegistry{
		embedder: embedder,
		store:    store,
		llm:      llm,
		prompts:  prompts,
		topK:     domain.DefaultTopK,
		handles:  make(map[domain.Domain]*IndexHandle),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build embeds every unit and replaces the domain's index. The collection is
// only touched once all embeddings succeeded; on any failure the domain is
// left without an index. The previous index stops being served before its
// collection changes. An empty unit set drops the collection instead of
// creating one, so it never depends on the embedder's dimensions.
func (r *IndexRegistry) Build(ctx context.Context, d domain.Domain, units []domain.RetrievableUnit) (Index, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("build index: %w: domain %q", domain.ErrUnsupportedType, d)
	}
	collection := d.Collection()
	logger.Debug("Building %s index: %d units into %s", d, len(units), collection)

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}

	var vectors [][]float32
	if len(units) > 0 {
		var err error
		vectors, err = r.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			r.discard(ctx, d)
			return nil, fmt.Errorf("build %s index: %w: %w", d, domain.ErrEmbeddingFailure, err)
		}
		if len(vectors) != len(units) {
			r.discard(ctx, d)
			return nil, fmt.Errorf("build %s index: %w: got %d vectors for %d units",
				d, domain.ErrEmbeddingFailure, len(vectors), len(units))
		}
	}

	r.forget(d)

	if len(units) == 0 {
		if err := r.store.Drop(ctx, collection); err != nil {
			return nil, fmt.Errorf("build %s index: drop %s: %w", d, collection, err)
		}
	} else if err := r.store.Reset(ctx, collection, len(vectors[0])); err != nil {
		r.discard(ctx, d)
		return nil, fmt.Errorf("build %s index: reset %s: %w", d, collection, err)
	}

	h := &IndexHandle{
		domain:     d,
		collection: collection,
		registry:   r,
		units:      make(map[string]domain.RetrievableUnit, len(units)),
		order:      make([]string, 0, len(units)),
	}
	points := make([]driven.VectorPoint, len(units))
	for i, u := range units {
		id := pointID(d, i)
		clone := u.Clone()
		h.units[id] = clone
		h.order = append(h.order, id)
		points[i] = driven.VectorPoint{ID: id, Vector: vectors[i], Unit: clone}
	}

	if len(points) > 0 {
		if err := r.store.Upsert(ctx, collection, points); err != nil {
			r.discard(ctx, d)
			return nil, fmt.Errorf("build %s index: upsert: %w", d, err)
		}
	}

	r.mu.Lock()
	r.handles[d] = h
	r.mu.Unlock()

	logger.Info("Built %s index with %d units", d, len(units))
	return h, nil
}

// Get returns the index for d, or domain.ErrIndexNotBuilt.
func (r *IndexRegistry) Get(d domain.Domain) (Index, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotBuilt, d)
	}
	return h, nil
}

// forget stops serving the domain's index.
func (r *IndexRegistry) forget(d domain.Domain) {
	r.mu.Lock()
	delete(r.handles, d)
	r.mu.Unlock()
}

// discard forgets the domain's index and drops its collection.
func (r *IndexRegistry) discard(ctx context.Context, d domain.Domain) {
	r.forget(d)

	if err := r.store.Drop(ctx, d.Collection()); err != nil {
		logger.Warn("Failed to drop %s: %v", d.Collection(), err)
	}
}

func pointID(d domain.Domain, i int) string {
	return uuid.NewSHA1(pointNamespace, []byte(fmt.Sprintf("%s/%d", d, i))).String()
}

// IndexHandle is a built index for one domain.
type IndexHandle struct {
	domain     domain.Domain
	collection string
	registry   *IndexRegistry

	// units is written once in Build and only read afterwards.
	units map[string]domain.RetrievableUnit
	order []string
}

// Domain returns the domain the index belongs to.
func (h *IndexHandle) Domain() domain.Domain {
	return h.domain
}

// Len returns the number of units in the index.
func (h *IndexHandle) Len() int {
	return len(h.order)
}

// SemanticRetrieve returns up to k units nearest to text, best first.
func (h *IndexHandle) SemanticRetrieve(ctx context.Context, text string, k int) ([]domain.RetrievableUnit, error) {
	if k < 1 {
		return nil, fmt.Errorf("retrieve: %w: k must be at least 1", domain.ErrInvalidInput)
	}
	if len(h.order) == 0 {
		return nil, nil
	}

	vector, err := h.registry.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("retrieve from %s: %w: %w", h.domain, domain.ErrEmbeddingFailure, err)
	}

	hits, err := h.registry.store.Query(ctx, h.collection, vector, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve from %s: %w", h.domain, err)
	}

	units := make([]domain.RetrievableUnit, 0, len(hits))
	for _, hit := range hits {
		u, ok := h.units[hit.ID]
		if !ok {
			logger.Warn("Ignoring unknown point %s in %s", hit.ID, h.collection)
			continue
		}
		units = append(units, u.Clone())
	}
	logger.Debug("Retrieved %d/%d units from %s", len(units), k, h.domain)
	return units, nil
}

// SemanticQuery retrieves the registry's top-k units and synthesises an answer.
func (h *IndexHandle) SemanticQuery(ctx context.Context, text string, mode domain.ResponseMode) (string, error) {
	if mode == "" {
		mode = domain.ResponseModeCompact
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("query: %w: response mode %q", domain.ErrInvalidInput, mode)
	}
	if h.registry.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	units, err := h.SemanticRetrieve(ctx, text, h.registry.topK)
	if err != nil {
		return "", err
	}
	if len(units) == 0 {
		return domain.EmptyResponse, nil
	}

	system := h.systemPrompt()
	s := synthesizer{llm: h.registry.llm, system: system}
	switch mode {
	case domain.ResponseModeRefine:
		return s.refine(ctx, text, units)
	default:
		return s.compact(ctx, text, units)
	}
}

// Lookup finds the first unit whose id or customer_id attribute equals key.
func (h *IndexHandle) Lookup(key string) (domain.RetrievableUnit, bool) {
	key = domain.NormaliseKey(key)
	if key == "" {
		return domain.RetrievableUnit{}, false
	}
	for _, id := range h.order {
		u := h.units[id]
		for name, value := range u.Attributes {
			switch domain.NormaliseKey(name) {
			case domain.ColOrderID, domain.ColCustomerID:
				if domain.NormaliseKey(value) == key {
					return u.Clone(), true
				}
			}
		}
	}
	return domain.RetrievableUnit{}, false
}

func (h *IndexHandle) systemPrompt() string {
	if h.registry.prompts == nil {
		return ""
	}
	prompt, err := h.registry.prompts.Load(string(h.domain))
	if err != nil {
		logger.Warn("Failed to load %s system prompt: %v", h.domain, err)
		return ""
	}
	return strings.TrimSpace(prompt)
}
