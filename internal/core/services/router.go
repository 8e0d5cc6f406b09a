package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driving"
	"github.com/custodia-labs/deskagent/internal/logger"
)

// Ensure Router implements the interface.
var _ driving.QueryRouter = (*Router)(nil)

// Router sends each query to its domain's pipeline. RETURNS and FAQ are
// answered by the LLM from retrieved context; ORDERS renders the best
// matching order row directly.
type Router struct {
	indexes     IndexProvider
	mode        domain.ResponseMode
	exactLookup bool
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithResponseMode sets the synthesis mode for LLM-backed domains.
func WithResponseMode(mode domain.ResponseMode) RouterOption {
	return func(r *Router) {
		if mode.IsValid() {
			r.mode = mode
		}
	}
}

// WithExactLookup makes ORDERS try an exact id / customer_id match before
// falling back to semantic retrieval.
func WithExactLookup(enabled bool) RouterOption {
	return func(r *Router) {
		r.exactLookup = enabled
	}
}

// NewRouter creates a router over the given indexes.
func NewRouter(indexes IndexProvider, opts ...RouterOption) *Router {
	r := &Router{
		indexes: indexes,
		mode:    domain.ResponseModeCompact,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enter records that session switched to d and returns the one-time notice.
func (r *Router) Enter(session *domain.Session, d domain.Domain) string {
	if session != nil && session.EnterDomain(d) {
		return domain.OrdersNotice
	}
	return ""
}

// Route answers query from d's index. Responses are never cached.
func (r *Router) Route(
	ctx context.Context, session *domain.Session, d domain.Domain, query string,
) (domain.Response, error) {
	logger.Section("Route")
	if !d.IsValid() {
		return domain.Response{}, fmt.Errorf("route: %w: domain %q", domain.ErrUnsupportedType, d)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Response{}, fmt.Errorf("route: %w: empty query", domain.ErrInvalidInput)
	}
	logger.Debug("Domain: %s, query: %q", d, query)

	idx, err := r.indexes.Get(d)
	if err != nil {
		return domain.Response{}, fmt.Errorf("route: %w", err)
	}

	var text string
	if d == domain.DomainOrders {
		text, err = r.orderAnswer(ctx, idx, query)
	} else {
		text, err = idx.SemanticQuery(ctx, query, r.mode)
	}
	if err != nil {
		logger.Warn("Route failed: %v", err)
		return domain.Response{}, fmt.Errorf("route %s: %w", d, err)
	}

	return domain.Response{
		Domain: d,
		Text:   text,
		Notice: r.Enter(session, d),
	}, nil
}

func (r *Router) orderAnswer(ctx context.Context, idx Index, query string) (string, error) {
	if r.exactLookup {
		if u, ok := idx.Lookup(query); ok {
			logger.Debug("Exact order match for %q", query)
			return RenderAttributes(u.Attributes), nil
		}
	}

	units, err := idx.SemanticRetrieve(ctx, query, 1)
	if err != nil {
		return "", err
	}
	if len(units) == 0 {
		return fmt.Sprintf("No information available for order %s.", query), nil
	}
	return RenderAttributes(units[0].Attributes), nil
}

// RenderAttributes renders attributes as "key: value" lines sorted by key.
func RenderAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + ": " + attrs[k]
	}
	return strings.Join(lines, "\n")
}
