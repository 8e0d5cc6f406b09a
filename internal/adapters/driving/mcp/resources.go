package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// uriScheme is the custom URI scheme for deskagent resources.
const uriScheme = "deskagent://"

type agentInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	MenuKey string `json:"menu_key"`
}

type policyInfo struct {
	ReturnWindowDays          int      `json:"return_window_days"`
	ExcludedCategories        []string `json:"excluded_categories"`
	ManualReviewPaymentMethod string   `json:"manual_review_payment_method"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "agents",
		Name:        "agents",
		Description: "Support agents that can be asked with the ask tool",
		MIMEType:    "application/json",
	}, s.handleAgentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "policy",
		Name:        "return-policy",
		Description: "Rules applied by evaluate_return_eligibility",
		MIMEType:    "application/json",
	}, s.handlePolicyResource)
}

func (s *Server) handleAgentsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	domains := domain.AllDomains()
	infos := make([]agentInfo, len(domains))
	for i, d := range domains {
		infos[i] = agentInfo{
			ID:      d.String(),
			Name:    d.AgentName(),
			Label:   d.Description(),
			MenuKey: d.MenuKey(),
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handlePolicyResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, returnPolicy())
}

func returnPolicy() policyInfo {
	categories := make([]string, 0, len(domain.ExcludedCategories))
	for c := range domain.ExcludedCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return policyInfo{
		ReturnWindowDays:          domain.ReturnWindowDays,
		ExcludedCategories:        categories,
		ManualReviewPaymentMethod: domain.ManualReviewPaymentMethod,
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
