package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

func orderUnits() []domain.RetrievableUnit {
	return []domain.RetrievableUnit{
		domain.NewUnit("Pedido 1001: Ana Pérez compró 2 x lámpara (entregado) el 2024-03-01.", map[string]string{
			"id": "1001", "nombre_comprador": "Ana Pérez", "nombre_producto": "lámpara", "estado": "entregado",
		}),
		domain.NewUnit("Pedido 2002: Luis Gómez compró 1 x silla (enviado) el 2024-03-02.", map[string]string{
			"id": "2002", "nombre_comprador": "Luis Gómez", "nombre_producto": "silla", "estado": "enviado",
		}),
	}
}

func newTestRouter(t *testing.T, llm *mockLLMService, opts ...RouterOption) *Router {
	t.Helper()
	r, _, _ := newTestRegistry(llm)
	ctx := context.Background()
	_, err := r.Build(ctx, domain.DomainOrders, orderUnits())
	require.NoError(t, err)
	_, err = r.Build(ctx, domain.DomainFAQ, units("we ship to the whole country"))
	require.NoError(t, err)
	return NewRouter(r, opts...)
}

func TestRouter_OrdersRendersSortedAttributes(t *testing.T) {
	llm := &mockLLMService{reply: "should not be used"}
	router := newTestRouter(t, llm)

	resp, err := router.Route(context.Background(), domain.NewSession(), domain.DomainOrders, "Luis Gómez silla")
	require.NoError(t, err)

	assert.Equal(t, "estado: enviado\nid: 2002\nnombre_comprador: Luis Gómez\nnombre_producto: silla", resp.Text)
	assert.Equal(t, domain.DomainOrders, resp.Domain)
	assert.Equal(t, 0, llm.calls())
}

func TestRouter_OrdersNoticeOnlyOnce(t *testing.T) {
	router := newTestRouter(t, nil)
	session := domain.NewSession()
	ctx := context.Background()

	first, err := router.Route(ctx, session, domain.DomainOrders, "1001")
	require.NoError(t, err)
	assert.Equal(t, domain.OrdersNotice, first.Notice)

	second, err := router.Route(ctx, session, domain.DomainOrders, "2002")
	require.NoError(t, err)
	assert.Empty(t, second.Notice)

	other, err := router.Route(ctx, domain.NewSession(), domain.DomainOrders, "1001")
	require.NoError(t, err)
	assert.Equal(t, domain.OrdersNotice, other.Notice)
}

func TestRouter_EnterThenRoute(t *testing.T) {
	router := newTestRouter(t, nil)
	session := domain.NewSession()

	assert.Empty(t, router.Enter(session, domain.DomainFAQ))
	assert.Equal(t, domain.OrdersNotice, router.Enter(session, domain.DomainOrders))

	resp, err := router.Route(context.Background(), session, domain.DomainOrders, "1001")
	require.NoError(t, err)
	assert.Empty(t, resp.Notice)
}

func TestRouter_OrdersNoMatch(t *testing.T) {
	r, _, _ := newTestRegistry(nil)
	_, err := r.Build(context.Background(), domain.DomainOrders, nil)
	require.NoError(t, err)

	resp, err := NewRouter(r).Route(context.Background(), nil, domain.DomainOrders, "9999")
	require.NoError(t, err)
	assert.Equal(t, "No information available for order 9999.", resp.Text)
}

func TestRouter_ExactLookup(t *testing.T) {
	ctx := context.Background()

	router := newTestRouter(t, nil, WithExactLookup(true))
	resp, err := router.Route(ctx, nil, domain.DomainOrders, "2002")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "id: 2002")

	resp, err = router.Route(ctx, nil, domain.DomainOrders, "Ana Pérez lámpara")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "id: 1001")
}

func TestRouter_FAQUsesLLM(t *testing.T) {
	llm := &mockLLMService{reply: "Yes, nationwide."}
	router := newTestRouter(t, llm)

	resp, err := router.Route(context.Background(), domain.NewSession(), domain.DomainFAQ, "  do you ship?  ")
	require.NoError(t, err)
	assert.Equal(t, "Yes, nationwide.", resp.Text)
	assert.Empty(t, resp.Notice)
	assert.Contains(t, llm.history[0][len(llm.history[0])-1].Content, "Query: do you ship?")
}

func TestRouter_Errors(t *testing.T) {
	router := newTestRouter(t, nil)
	ctx := context.Background()

	_, err := router.Route(ctx, nil, domain.DomainFAQ, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = router.Route(ctx, nil, domain.Domain("billing"), "x")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = router.Route(ctx, nil, domain.DomainReturns, "x")
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)

	session := domain.NewSession()
	_, err = router.Route(ctx, session, domain.DomainFAQ, "x")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestRenderAttributes(t *testing.T) {
	assert.Equal(t, "a: 1\nb: \nc: 3", RenderAttributes(map[string]string{"c": "3", "a": "1", "b": ""}))
	assert.Equal(t, "", RenderAttributes(nil))
}
