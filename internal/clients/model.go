package clients

import (
	"context"

	"github.com/totemove/inventory-cli/internal/retry"
	"github.com/totemove/inventory-cli/pkg/llm"
)

const systemPrompt = "You are an expert at identifying and valuing collectible items " +
	"from reverse image search results. You respond with a single JSON object and nothing else."

// ModelSynthesizer turns an assembled context prompt into a structured
// identification draft via the Anthropic API.
type ModelSynthesizer struct {
	api       llm.Client
	model     string
	maxTokens int64
	policy    retry.Policy
}

// NewModelSynthesizer wraps an LLM client with the configured model.
func NewModelSynthesizer(api llm.Client, model string, maxTokens int64) *ModelSynthesizer {
	return &ModelSynthesizer{
		api:       api,
		model:     model,
		maxTokens: maxTokens,
		policy:    retry.Default("anthropic"),
	}
}

// Synthesize sends the prompt and returns the raw completion text. The
// caller owns parsing and validation; nothing here is trusted.
func (m *ModelSynthesizer) Synthesize(ctx context.Context, prompt string) (string, error) {
	resp, err := retry.Do(ctx, m.policy, func(ctx context.Context) (*llm.MessageResponse, error) {
		return m.api.CreateMessage(ctx, llm.MessageRequest{
			Model:     m.model,
			MaxTokens: m.maxTokens,
			System:    systemPrompt,
			Prompt:    prompt,
		})
	})
	if err != nil {
		return "", err
	}

	resp.Usage.LogCost(m.model, "synthesis")
	return resp.Text, nil
}
