// Package llm provides model provider clients for insight generation.
package llm

import "context"

// ModelClient is the single external-collaborator boundary to a model
// provider. Use this interface for dependency injection to enable mocking
// in tests.
type ModelClient interface {
	// Complete generates a completion for the prompt. The token budget and
	// model identifier are fixed at client construction.
	Complete(ctx context.Context, prompt string, systemMessage string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Config holds configuration shared by the provider clients.
type Config struct {
	Endpoint    string  // Base URL, e.g. "https://api.openai.com/v1" (OpenAI-compatible only)
	Model       string  // Model name, e.g. "gpt-4o-mini"
	APIKey      string
	MaxTokens   int     // Completion token budget per call
	Temperature float64
}

// Ensure the provider clients implement ModelClient at compile time.
var (
	_ ModelClient = (*Client)(nil)
	_ ModelClient = (*AnthropicClient)(nil)
)
