/*
Package rewrite polishes rough leave reasons into professional wording.

PURPOSE:
  Employees type one-line reasons ("dentist", "kid sick"). The request
  form offers to rewrite them into something presentable before
  submission. The rewrite is strictly advisory: a failure falls back
  to the original text and the request flow never blocks on it.

IMPLEMENTATIONS:
  Gemini: Google GenAI backed rewriter
  Noop:   returns the input unchanged (no API key configured, tests)
*/
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/warp/attendance-engine/engine"
)

// Rewriter rewrites a leave reason. Implementations never return an
// empty string for a non-empty input: on any failure they return the
// input unchanged.
type Rewriter interface {
	Rewrite(ctx context.Context, reason string, kind engine.LeaveKind, days decimal.Decimal) string
}

// Noop returns reasons unchanged.
type Noop struct{}

func (Noop) Rewrite(_ context.Context, reason string, _ engine.LeaveKind, _ decimal.Decimal) string {
	return reason
}

const defaultModel = "gemini-2.5-flash"

// Gemini rewrites reasons with the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a Gemini rewriter. model may be empty to use the
// default flash model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Rewrite(ctx context.Context, reason string, kind engine.LeaveKind, days decimal.Decimal) string {
	if strings.TrimSpace(reason) == "" {
		return reason
	}

	prompt := fmt.Sprintf(`You are a professional HR assistant. Rewrite the leave reason below as one short, polite, professional paragraph.

Details:
- Leave kind: %s
- Days: %s
- Original reason (may be rough): %q

Requirements:
- Return only the rewritten reason.
- Keep a respectful tone toward managers and colleagues.
- No salutations or sign-offs, just the reason itself.`, kind, days, reason)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return reason
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return reason
	}
	return text
}

var (
	_ Rewriter = (*Gemini)(nil)
	_ Rewriter = Noop{}
)
