package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deskagent/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

func newTestRegistry(llm *mockLLMService, opts ...RegistryOption) (*IndexRegistry, *mockEmbeddingService, *memory.Store) {
	embedder := &mockEmbeddingService{}
	store := memory.New()
	var llmSvc driven.LLMService
	if llm != nil {
		llmSvc = llm
	}
	prompts := mockPromptStore{"faq": "  Answer as the store FAQ assistant.  "}
	return NewIndexRegistry(embedder, store, llmSvc, prompts, opts...), embedder, store
}

func TestRegistry_GetBeforeBuild(t *testing.T) {
	r, _, _ := newTestRegistry(nil)
	_, err := r.Get(domain.DomainFAQ)
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)
}

func TestRegistry_BuildAndRetrieve(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(nil)

	idx, err := r.Build(ctx, domain.DomainFAQ, units("shipping takes three days", "we accept cards", "opening hours"))
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, domain.DomainFAQ, idx.Domain())

	got, err := r.Get(domain.DomainFAQ)
	require.NoError(t, err)

	hits, err := got.SemanticRetrieve(ctx, "shipping days", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "shipping takes three days", hits[0].Text)
}

func TestRegistry_DomainIsolation(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(nil)

	_, err := r.Build(ctx, domain.DomainFAQ, units("payment methods"))
	require.NoError(t, err)
	_, err = r.Build(ctx, domain.DomainOrders, units("Pedido 1001: Ana compró 2 x silla"))
	require.NoError(t, err)

	faq, err := r.Get(domain.DomainFAQ)
	require.NoError(t, err)

	hits, err := faq.SemanticRetrieve(ctx, "Pedido 1001: Ana compró 2 x silla", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "payment methods", hits[0].Text)
}

func TestRegistry_RebuildReplaces(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(nil)

	_, err := r.Build(ctx, domain.DomainFAQ, units("old answer", "another old"))
	require.NoError(t, err)
	_, err = r.Build(ctx, domain.DomainFAQ, units("new answer"))
	require.NoError(t, err)

	idx, err := r.Get(domain.DomainFAQ)
	require.NoError(t, err)
	hits, err := idx.SemanticRetrieve(ctx, "old answer", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new answer", hits[0].Text)
}

func TestRegistry_EmbeddingFailureLeavesNoIndex(t *testing.T) {
	ctx := context.Background()
	r, embedder, store := newTestRegistry(nil)

	_, err := r.Build(ctx, domain.DomainReturns, units("30 day window"))
	require.NoError(t, err)

	embedder.batchErr = errors.New("provider down")
	_, err = r.Build(ctx, domain.DomainReturns, units("new policy"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)

	_, err = r.Get(domain.DomainReturns)
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)

	_, err = store.Query(ctx, domain.DomainReturns.Collection(), make([]float32, mockDims), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_BuildUnknownDomain(t *testing.T) {
	r, _, _ := newTestRegistry(nil)
	_, err := r.Build(context.Background(), domain.Domain("shipping"), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_EmptyIndex(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMService{reply: "unused"}
	r, _, _ := newTestRegistry(llm)

	idx, err := r.Build(ctx, domain.DomainFAQ, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	hits, err := idx.SemanticRetrieve(ctx, "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	answer, err := idx.SemanticQuery(ctx, "anything", domain.ResponseModeCompact)
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyResponse, answer)
	assert.Equal(t, 0, llm.calls())
}

// lazyDimsEmbedder reports no dimensions until it has embedded something.
type lazyDimsEmbedder struct {
	mockEmbeddingService
}

func (*lazyDimsEmbedder) Dimensions() int { return 0 }

// strictStore rejects collections without dimensions and runs onReset
// before every Reset.
type strictStore struct {
	*memory.Store
	onReset func(collection string)
	resets  int
}

func (s *strictStore) Reset(ctx context.Context, collection string, dimensions int) error {
	s.resets++
	if s.onReset != nil {
		s.onReset(collection)
	}
	if dimensions < 1 {
		return fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	return s.Store.Reset(ctx, collection, dimensions)
}

func TestRegistry_EmptyIndexWithLazyDimensions(t *testing.T) {
	ctx := context.Background()
	store := &strictStore{Store: memory.New()}
	r := NewIndexRegistry(&lazyDimsEmbedder{}, store, nil, nil)

	_, err := r.Build(ctx, domain.DomainReturns, units("30 day window"))
	require.NoError(t, err)

	idx, err := r.Build(ctx, domain.DomainReturns, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 1, store.resets)

	got, err := r.Get(domain.DomainReturns)
	require.NoError(t, err)
	hits, err := got.SemanticRetrieve(ctx, "window", 2)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = store.Query(ctx, domain.DomainReturns.Collection(), make([]float32, mockDims), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_RebuildStopsServingOldIndexFirst(t *testing.T) {
	ctx := context.Background()
	store := &strictStore{Store: memory.New()}
	r := NewIndexRegistry(&mockEmbeddingService{}, store, nil, nil)

	_, err := r.Build(ctx, domain.DomainFAQ, units("old answer"))
	require.NoError(t, err)

	var servedDuringReset []error
	store.onReset = func(string) {
		_, err := r.Get(domain.DomainFAQ)
		servedDuringReset = append(servedDuringReset, err)
	}

	_, err = r.Build(ctx, domain.DomainFAQ, units("new answer"))
	require.NoError(t, err)
	require.Len(t, servedDuringReset, 1)
	assert.ErrorIs(t, servedDuringReset[0], domain.ErrIndexNotBuilt)

	idx, err := r.Get(domain.DomainFAQ)
	require.NoError(t, err)
	hits, err := idx.SemanticRetrieve(ctx, "answer", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new answer", hits[0].Text)
}

func TestRegistry_RetrievedUnitsAreCopies(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newTestRegistry(nil)
	idx, err := r.Build(ctx, domain.DomainOrders, []domain.RetrievableUnit{
		domain.NewUnit("order one", map[string]string{"id": "1"}),
	})
	require.NoError(t, err)

	hits, err := idx.SemanticRetrieve(ctx, "order", 1)
	require.NoError(t, err)
	hits[0].Attributes["id"] = "tampered"

	again, err := idx.SemanticRetrieve(ctx, "order", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", again[0].Attributes["id"])
}

func TestIndexHandle_SemanticRetrieve_Errors(t *testing.T) {
	ctx := context.Background()
	r, embedder, _ := newTestRegistry(nil)
	idx, err := r.Build(ctx, domain.DomainFAQ, units("a"))
	require.NoError(t, err)

	_, err = idx.SemanticRetrieve(ctx, "a", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	embedder.embedErr = errors.New("timeout")
	_, err = idx.SemanticRetrieve(ctx, "a", 1)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailure)
}

func TestIndexHandle_SemanticQuery_Compact(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMService{reply: "  Shipping takes three days.  "}
	r, _, _ := newTestRegistry(llm)

	idx, err := r.Build(ctx, domain.DomainFAQ, units("shipping takes three days", "returns within thirty days", "zzz"))
	require.NoError(t, err)

	answer, err := idx.SemanticQuery(ctx, "how long is shipping", domain.ResponseModeCompact)
	require.NoError(t, err)
	assert.Equal(t, "Shipping takes three days.", answer)

	require.Equal(t, 1, llm.calls())
	msgs := llm.history[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, driven.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Answer as the store FAQ assistant.", msgs[0].Content)
	assert.Contains(t, msgs[1].Content, "shipping takes three days")
	assert.Contains(t, msgs[1].Content, "Query: how long is shipping")
}

func TestIndexHandle_SemanticQuery_NoSystemPrompt(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMService{reply: "ok"}
	r, _, _ := newTestRegistry(llm)

	idx, err := r.Build(ctx, domain.DomainReturns, units("policy text"))
	require.NoError(t, err)

	_, err = idx.SemanticQuery(ctx, "policy", "")
	require.NoError(t, err)
	require.Len(t, llm.history[0], 1)
	assert.Equal(t, driven.RoleUser, llm.history[0][0].Role)
}

func TestIndexHandle_SemanticQuery_Refine(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMService{reply: "refined"}
	r, _, _ := newTestRegistry(llm, WithTopK(3))

	idx, err := r.Build(ctx, domain.DomainFAQ, units("alpha", "beta", "gamma"))
	require.NoError(t, err)

	answer, err := idx.SemanticQuery(ctx, "alpha beta gamma", domain.ResponseModeRefine)
	require.NoError(t, err)
	assert.Equal(t, "refined", answer)
	assert.Equal(t, 3, llm.calls())
	assert.Contains(t, llm.history[2][1].Content, "We have provided an existing answer: refined")
}

func TestIndexHandle_SemanticQuery_Errors(t *testing.T) {
	ctx := context.Background()

	r, _, _ := newTestRegistry(nil)
	idx, err := r.Build(ctx, domain.DomainFAQ, units("a"))
	require.NoError(t, err)
	_, err = idx.SemanticQuery(ctx, "a", domain.ResponseModeCompact)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	llm := &mockLLMService{err: errors.New("model crashed")}
	r, _, _ = newTestRegistry(llm)
	idx, err = r.Build(ctx, domain.DomainFAQ, units("a"))
	require.NoError(t, err)
	_, err = idx.SemanticQuery(ctx, "a", domain.ResponseModeCompact)
	assert.ErrorIs(t, err, domain.ErrGenerationFailure)

	_, err = idx.SemanticQuery(ctx, "a", domain.ResponseMode("tree"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexHandle_Lookup(t *testing.T) {
	r, _, _ := newTestRegistry(nil)
	idx, err := r.Build(context.Background(), domain.DomainOrders, []domain.RetrievableUnit{
		domain.NewUnit("a", map[string]string{"ID": "1001", "estado": "enviado"}),
		domain.NewUnit("b", map[string]string{"customer_id": "C-7", "estado": "entregado"}),
		domain.NewUnit("c", map[string]string{"id": "1001", "estado": "duplicado"}),
	})
	require.NoError(t, err)

	u, ok := idx.Lookup(" 1001 ")
	require.True(t, ok)
	assert.Equal(t, "enviado", u.Attributes["estado"])

	u, ok = idx.Lookup("c-7")
	require.True(t, ok)
	assert.Equal(t, "entregado", u.Attributes["estado"])

	_, ok = idx.Lookup("9999")
	assert.False(t, ok)
	_, ok = idx.Lookup("")
	assert.False(t, ok)
}
