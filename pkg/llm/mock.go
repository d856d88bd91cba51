package llm

import "context"

// MockModelClient is a configurable mock for testing insight generation.
// Set CompleteFunc to control behavior in tests.
type MockModelClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns empty string and nil error.
	CompleteFunc func(ctx context.Context, prompt string, systemMessage string) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification.
	CompleteCalls int
	Prompts       []string
}

// NewMockModelClient creates a new mock with sensible defaults.
func NewMockModelClient() *MockModelClient {
	return &MockModelClient{Model: "mock-model"}
}

// Complete implements ModelClient.
func (m *MockModelClient) Complete(ctx context.Context, prompt string, systemMessage string) (string, error) {
	m.CompleteCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, systemMessage)
	}
	return "", nil
}

// GetModel implements ModelClient.
func (m *MockModelClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Reset clears call tracking.
func (m *MockModelClient) Reset() {
	m.CompleteCalls = 0
	m.Prompts = nil
}

// Ensure MockModelClient implements ModelClient at compile time.
var _ ModelClient = (*MockModelClient)(nil)
