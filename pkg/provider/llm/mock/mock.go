// Package mock provides a test double for the llm.Provider interface.
//
// Use Provider in unit tests to verify the requests the gateway sends and to
// script replies without a live backend. Script entries are consumed in call
// order; once the script is exhausted, CompleteResponse and CompleteErr are
// returned for every further call.
//
// Example:
//
//	p := &mock.Provider{
//	    Script: []mock.Reply{
//	        {Err: &llm.StatusError{Code: 503}},
//	        {Content: `{"score": 3}`},
//	    },
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

// CompleteCall records a single invocation of Complete.
type CompleteCall struct {
	// Ctx is the context passed to Complete.
	Ctx context.Context
	// Req is the CompletionRequest passed to Complete.
	Req llm.CompletionRequest
}

// Reply is one scripted outcome of Complete.
type Reply struct {
	Content string
	Err     error
}

// Provider is a mock implementation of llm.Provider.
type Provider struct {
	mu sync.Mutex

	// Name is returned by Model.
	Name string

	// Script is consumed one entry per Complete call.
	Script []Reply

	// CompleteResponse is returned once Script is exhausted. May be nil.
	CompleteResponse *llm.CompletionResponse

	// CompleteErr, if non-nil, is returned once Script is exhausted.
	CompleteErr error

	// CompleteCalls records every invocation of Complete in order.
	CompleteCalls []CompleteCall
}

// Complete records the call and returns the next scripted reply.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.CompleteCalls)
	p.CompleteCalls = append(p.CompleteCalls, CompleteCall{Ctx: ctx, Req: req})
	if n < len(p.Script) {
		r := p.Script[n]
		if r.Err != nil {
			return nil, r.Err
		}
		return &llm.CompletionResponse{Content: r.Content}, nil
	}
	return p.CompleteResponse, p.CompleteErr
}

// Model returns Name.
func (p *Provider) Model() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Name
}

// Calls returns a copy of the recorded Complete calls. Thread-safe.
func (p *Provider) Calls() []CompleteCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompleteCall, len(p.CompleteCalls))
	copy(out, p.CompleteCalls)
	return out
}

// Reset clears all recorded calls and restarts the script. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CompleteCalls = nil
}

// Ensure Provider implements llm.Provider at compile time.
var _ llm.Provider = (*Provider)(nil)
