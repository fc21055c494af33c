package llm

import "context"

// Turn is one message in a chat completion request.
type Turn struct {
	Role    string
	Content string
}

// Request contains chat completion parameters.
type Request struct {
	System      string
	History     []Turn
	Temperature float64
	MaxTokens   int
}

// Response contains the completion result.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete generates an assistant reply for the chat history
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}
