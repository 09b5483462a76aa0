// Package llm defines the Provider interface for generative text model
// backends.
//
// A provider wraps a remote or local model API (Gemini, OpenAI, or any backend
// reachable through any-llm-go) and exposes a single request/response call so
// the model gateway can retry and switch tiers without coupling to a specific
// SDK.
//
// Implementations must be safe for concurrent use. They must not retry on
// their own: retry and tier escalation are the caller's policy, and hidden
// SDK retries would distort attempt accounting.
package llm

import "context"

// Usage holds token accounting information returned by the backend.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest carries everything the model needs to produce a reply.
// At minimum Messages must be non-empty.
type CompletionRequest struct {
	// Messages is the ordered conversation. The gateway sends a single user
	// message holding the complete prompt.
	Messages []Message

	// SystemPrompt is an optional high-priority instruction. Providers without
	// native support prepend it as a "system"-role message.
	SystemPrompt string

	// Temperature controls output randomness. Zero means provider default.
	Temperature float64

	// MaxTokens caps the reply length. Zero means provider default.
	MaxTokens int

	// JSONMode asks the backend to constrain its reply to a JSON document
	// where the backend supports it. Callers must still validate the reply.
	JSONMode bool
}

// CompletionResponse is the model's full reply.
type CompletionResponse struct {
	// Content is the raw text of the reply.
	Content string

	Usage Usage
}

// Provider is the abstraction over any generative text backend.
type Provider interface {
	// Complete sends req to the model and waits for the full reply. It returns
	// promptly when ctx is cancelled.
	//
	// Errors carrying an HTTP-like status should be wrapped in a *StatusError
	// so callers can classify them without inspecting message text.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Model returns the model name this provider sends requests to.
	Model() string
}

// UserPrompt builds a single-message request for prompt.
func UserPrompt(prompt string) CompletionRequest {
	return CompletionRequest{Messages: []Message{{Role: RoleUser, Content: prompt}}}
}
