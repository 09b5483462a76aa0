// Package anyllm adapts github.com/mozilla-ai/any-llm-go to llm.Provider so
// the model gateway can use Anthropic, DeepSeek, Mistral, Groq and local
// servers (Ollama, llama.cpp, llamafile) as either tier.
//
// any-llm-go normalises backend failures into its own error categories
// without a uniform status code. Complete translates them into
// *llm.StatusError so the gateway classifies overloads and rejected keys from
// a code instead of free-form text.
package anyllm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
	oai "github.com/openai/openai-go"

	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

// jsonInstruction is added as a system message for JSON-mode requests. Not
// every backend behind any-llm-go honours a response format, so the
// constraint travels in the prompt.
const jsonInstruction = "Respond with a single valid JSON document and nothing else."

type backendFactory func(opts ...anyllmlib.Option) (anyllmlib.Provider, error)

var backends = map[string]backendFactory{
	"anthropic": func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return anthropic.New(o...) },
	"deepseek":  func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return deepseek.New(o...) },
	"gemini":    func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return gemini.New(o...) },
	"groq":      func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return groq.New(o...) },
	"llamacpp":  func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return llamacpp.New(o...) },
	"llamafile": func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return llamafile.New(o...) },
	"mistral":   func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return mistral.New(o...) },
	"ollama":    func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return ollama.New(o...) },
	"openai":    func(o ...anyllmlib.Option) (anyllmlib.Provider, error) { return anyllmoai.New(o...) },
}

// Backends returns the sorted names accepted by [New].
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Provider is an llm.Provider backed by one any-llm-go backend.
type Provider struct {
	backend anyllmlib.Provider
	name    string
	model   string
}

var _ llm.Provider = (*Provider)(nil)

// New creates a Provider for the named backend (see [Backends]). Without a
// key option the backend reads its usual environment variable, for example
// ANTHROPIC_API_KEY; local servers need none.
func New(backend, model string, opts ...anyllmlib.Option) (*Provider, error) {
	name := strings.ToLower(strings.TrimSpace(backend))
	if name == "" {
		return nil, errors.New("anyllm: backend name must not be empty")
	}
	if model == "" {
		return nil, errors.New("anyllm: model must not be empty")
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("anyllm: unsupported backend %q (supported: %s)", backend, strings.Join(Backends(), ", "))
	}
	b, err := factory(opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %s backend: %w", name, err)
	}
	return &Provider{backend: b, name: name, model: model}, nil
}

// Model implements llm.Provider.
func (p *Provider) Model() string { return p.model }

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.backend.Completion(ctx, p.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("anyllm: %s completion: %w", p.name, wrapAPIError(err))
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("anyllm: %s returned no choices", p.name)
	}

	out := &llm.CompletionResponse{Content: resp.Choices[0].Message.ContentString()}
	if resp.Usage != nil {
		out.Usage = llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// buildParams converts req into any-llm-go parameters. The system prompt and,
// in JSON mode, the JSON instruction lead the conversation.
func (p *Provider) buildParams(req llm.CompletionRequest) anyllmlib.CompletionParams {
	var messages []anyllmlib.Message
	system := req.SystemPrompt
	if req.JSONMode {
		system = strings.TrimSpace(system + "\n" + jsonInstruction)
	}
	if system != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		messages = append(messages, convertMessage(m))
	}

	params := anyllmlib.CompletionParams{Model: p.model, Messages: messages}
	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}
	return params
}

func convertMessage(m llm.Message) anyllmlib.Message {
	return anyllmlib.Message{Role: m.Role, Content: m.Content}
}

// categories maps the wording of any-llm-go's error categories to a status.
// Order matters: the first match wins.
var categories = []struct {
	phrase string
	code   int
	status string
}{
	{"rate limit", http.StatusTooManyRequests, "RATE_LIMITED"},
	{"overloaded", 529, "OVERLOADED"},
	{"missing api key", http.StatusUnauthorized, "UNAUTHENTICATED"},
	{"invalid api key", http.StatusUnauthorized, "UNAUTHENTICATED"},
	{"authentication", http.StatusUnauthorized, "UNAUTHENTICATED"},
	{"permission denied", http.StatusForbidden, "PERMISSION_DENIED"},
	{"model not found", http.StatusNotFound, "NOT_FOUND"},
	{"context length", http.StatusBadRequest, "CONTEXT_LENGTH_EXCEEDED"},
	{"content filter", http.StatusBadRequest, "CONTENT_FILTERED"},
}

// wrapAPIError exposes the status of a backend failure as a *llm.StatusError.
// OpenAI-compatible backends carry a real HTTP status; for the rest the
// any-llm-go error category decides. Errors that fit neither pass through.
func wrapAPIError(err error) error {
	var se *llm.StatusError
	if errors.As(err, &se) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *oai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return &llm.StatusError{Code: apiErr.StatusCode, Status: apiErr.Type, Err: err}
	}
	msg := strings.ToLower(err.Error())
	for _, c := range categories {
		if strings.Contains(msg, c.phrase) {
			return &llm.StatusError{Code: c.code, Status: c.status, Err: err}
		}
	}
	return err
}
