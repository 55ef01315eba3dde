// Package summarizer answers free-text questions about stocks, either
// through the gateway's /ask endpoint or directly through Gemini.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Asker is the gateway call used by Gateway.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Gateway forwards prompts to the Remote Data Gateway.
type Gateway struct {
	asker Asker
}

// NewGateway wraps asker.
func NewGateway(asker Asker) *Gateway {
	return &Gateway{asker: asker}
}

// Summarize sends prompt to /ask. An empty answer is not an error.
func (g *Gateway) Summarize(ctx context.Context, prompt string) (string, error) {
	return g.asker.Ask(ctx, prompt)
}

// Name identifies the backend in logs and the version endpoint.
func (g *Gateway) Name() string { return "gateway" }

// Gemini asks a Gemini model with Google Search grounding enabled.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini summarizer using the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Summarize sends prompt to the model and returns the text of its answer.
func (g *Gemini) Summarize(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
You are a financial news assistant. Answer in markdown with one short
section per ticker symbol. Do not give investment advice.
`}}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Name identifies the backend in logs and the version endpoint.
func (g *Gemini) Name() string { return "gemini" }
