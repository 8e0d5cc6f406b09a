package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/deskagent/internal/core/domain"
)

// EligibilityToolDescription is the fixed description of the eligibility tool.
const EligibilityToolDescription = "Evalúa si un pedido es elegible para devolución. " +
	"Usa el ID del cliente y el nombre del producto."

// EligibilityInput is the input schema for the evaluate_return_eligibility tool.
type EligibilityInput struct {
	CustomerID  string `json:"customer_id" jsonschema:"the customer identifier"`
	ProductName string `json:"product_name" jsonschema:"the product name as it appears in the order"`
}

// EligibilityOutput is the output schema for the evaluate_return_eligibility tool.
type EligibilityOutput struct {
	Outcome     string `json:"outcome"`
	Returnable  bool   `json:"returnable"`
	Message     string `json:"message"`
	DaysElapsed int    `json:"days_elapsed,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Agent    string `json:"agent" jsonschema:"devoluciones, pedidos or faq"`
	Question string `json:"question" jsonschema:"the customer question"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Agent  string `json:"agent"`
	Answer string `json:"answer"`
	Notice string `json:"notice,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_return_eligibility",
		Description: EligibilityToolDescription,
	}, s.handleEligibility)

	if s.ports.Router != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Ask a support agent: devoluciones (returns policy), pedidos (orders) or faq",
		}, s.handleAsk)
	}
}

func (s *Server) handleEligibility(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EligibilityInput,
) (*mcp.CallToolResult, EligibilityOutput, error) {
	result, err := s.ports.Eligibility.Evaluate(ctx, input.CustomerID, input.ProductName)
	if err != nil {
		return nil, EligibilityOutput{}, err
	}

	return nil, EligibilityOutput{
		Outcome:     result.Outcome.String(),
		Returnable:  result.Outcome.Returnable(),
		Message:     result.Message(),
		DaysElapsed: result.DaysElapsed,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	d, err := domain.ParseDomain(input.Agent)
	if err != nil {
		return nil, AskOutput{}, err
	}

	resp, err := s.ports.Router.Route(ctx, s.session, d, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Agent:  d.AgentName(),
		Answer: resp.Text,
		Notice: resp.Notice,
	}, nil
}
