package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/MrWong99/wordsmith/internal/credential"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

// KeyStatus is the connectivity state reported by [Gateway.Status].
type KeyStatus string

const (
	StatusNoKey      KeyStatus = "no-key"
	StatusOnline     KeyStatus = "online"
	StatusOverloaded KeyStatus = "overloaded"
	StatusInvalidKey KeyStatus = "invalid-key"
	StatusOffline    KeyStatus = "offline"
)

const (
	statusPrompt  = "Test"
	keyTestPrompt = "Say 'Hello, API key is working!'"
)

// KeyCheck is the outcome of a single unretried call against the primary tier.
type KeyCheck struct {
	Status KeyStatus         `json:"status"`
	Source credential.Source `json:"source,omitempty"`
	Reply  string            `json:"reply,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Status checks the primary tier with the active credential. It makes one
// call without retry and does not touch the client cache.
func (g *Gateway) Status(ctx context.Context) KeyCheck {
	key, src := g.creds.Resolve()
	if !credential.Usable(key) {
		return KeyCheck{Status: StatusNoKey, Source: credential.SourceNone}
	}
	p := g.check(ctx, key, statusPrompt)
	p.Source = src
	return p
}

// TestKey checks the primary tier with a candidate key. A nil error means
// the key produced a reply.
func (g *Gateway) TestKey(ctx context.Context, key string) (KeyCheck, error) {
	if !credential.Usable(key) {
		return KeyCheck{Status: StatusNoKey}, &ConfigurationError{Err: ErrNoCredential}
	}
	p := g.check(ctx, strings.TrimSpace(key), keyTestPrompt)
	if p.Status != StatusOnline {
		return p, errors.New("gateway: key test failed: " + p.Error)
	}
	return p, nil
}

func (g *Gateway) check(ctx context.Context, key, prompt string) KeyCheck {
	g.mu.RLock()
	factory := g.factory
	g.mu.RUnlock()
	if factory == nil {
		return KeyCheck{Status: StatusOffline, Error: "no client factory configured"}
	}

	p, err := factory(ctx, TierPrimary, key)
	if err != nil {
		return KeyCheck{Status: StatusOffline, Error: err.Error()}
	}
	resp, err := p.Complete(ctx, llm.UserPrompt(prompt))
	if err == nil && (resp == nil || strings.TrimSpace(resp.Content) == "") {
		err = ErrEmptyReply
	}
	if err != nil {
		status := StatusOffline
		switch Classify(err) {
		case ClassOverloaded:
			status = StatusOverloaded
		case ClassInvalidKey:
			status = StatusInvalidKey
		}
		return KeyCheck{Status: status, Error: err.Error()}
	}
	return KeyCheck{Status: StatusOnline, Reply: resp.Content}
}
