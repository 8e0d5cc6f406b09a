package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

const qaTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

const refineTemplate = `The original query is as follows: %s
We have provided an existing answer: %s
We have the opportunity to refine the existing answer (only if needed) with some more context below.
------------
%s
------------
Given the new context, refine the original answer to better answer the query. If the context isn't useful, return the original answer.
Refined Answer: `

// synthesizer turns retrieved units into an answer with the LLM.
type synthesizer struct {
	llm    driven.LLMService
	system string
}

// compact answers once from all units joined together.
func (s synthesizer) compact(ctx context.Context, query string, units []domain.RetrievableUnit) (string, error) {
	return s.ask(ctx, fmt.Sprintf(qaTemplate, joinUnits(units), query))
}

// refine answers from the first unit and refines with each following one.
func (s synthesizer) refine(ctx context.Context, query string, units []domain.RetrievableUnit) (string, error) {
	answer, err := s.ask(ctx, fmt.Sprintf(qaTemplate, units[0].Text, query))
	if err != nil {
		return "", err
	}
	for _, u := range units[1:] {
		answer, err = s.ask(ctx, fmt.Sprintf(refineTemplate, query, answer, u.Text))
		if err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (s synthesizer) ask(ctx context.Context, prompt string) (string, error) {
	messages := make([]driven.ChatMessage, 0, 2)
	if s.system != "" {
		messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: s.system})
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: prompt})

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	return strings.TrimSpace(answer), nil
}

func joinUnits(units []domain.RetrievableUnit) string {
	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.Text
	}
	return strings.Join(texts, "\n\n")
}
