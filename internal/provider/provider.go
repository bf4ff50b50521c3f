// Package provider abstracts the language-model oracle behind a single
// completion capability. The pipeline never inspects provider-specific
// fields beyond this contract.
package provider

import (
	"context"
	"encoding/json"
)

// Role tags a message in a completion request.
type Role string

const (
	// RoleSystem carries instructions to the model.
	RoleSystem Role = "system"
	// RoleUser carries the question or task.
	RoleUser Role = "user"
	// RoleAssistant carries prior model output.
	RoleAssistant Role = "assistant"
)

// Message is one entry in a completion request.
type Message struct {
	Role    Role
	Content string
}

// Request contains all inputs for a completion.
type Request struct {
	// Messages is the ordered conversation to complete.
	Messages []Message
	// Temperature is the sampling temperature.
	Temperature float64
	// MaxTokens caps the output length. Zero means provider default.
	MaxTokens int
	// Structured asks the model to respond with a single JSON object.
	Structured bool
}

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response contains the result of a completion.
type Response struct {
	// Text is the raw response text.
	Text string
	// JSON is the structured payload extracted from the text when the
	// request asked for structured output. Nil when extraction failed
	// or structured output was not requested.
	JSON json.RawMessage
	// Usage reports token consumption, when the provider supplies it.
	Usage Usage
}

// Provider abstracts LLM completions.
type Provider interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req Request) (Response, error)
}

// CompleterFunc allows functions to implement Provider (adapter pattern).
// Useful for testing and simple inline implementations.
type CompleterFunc func(ctx context.Context, req Request) (Response, error)

// Complete implements Provider.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
