// Package gateway performs one logical "ask the remote model" call with
// retry, model-tier escalation and failure classification.
//
// A [Gateway] owns the lazily created model clients for its two tiers.
// Attempt 0 goes to the primary tier; every retry goes to the backup tier.
// Only [ClassOverloaded] failures are retried, with exponential backoff
// (1s, 2s, ... by default). The gateway returns the model's raw text and
// never parses it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/MrWong99/wordsmith/internal/credential"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/internal/resilience"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

// Tier names one of the two remote model configurations.
type Tier string

const (
	TierPrimary Tier = "primary"
	TierBackup  Tier = "backup"
)

// TierForAttempt returns the tier used for the 0-based attempt number.
func TierForAttempt(attempt int) Tier {
	if attempt == 0 {
		return TierPrimary
	}
	return TierBackup
}

// RetryState tracks one invocation's progress. It lives only for the
// duration of a single [Gateway.Invoke] call.
type RetryState struct {
	Attempt   int
	Tier      Tier
	LastClass ErrorClass
	Failed    bool
}

// Credentials supplies the active API key.
type Credentials interface {
	Resolve() (string, credential.Source)
}

// ClientFactory builds the provider for tier authenticated with key.
type ClientFactory func(ctx context.Context, tier Tier, key string) (llm.Provider, error)

// Config holds the retry and request settings.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	// Default: 2. Negative disables retries.
	MaxRetries int

	// BaseDelay is the wait before the first retry; later retries double it.
	// Default: 1s.
	BaseDelay time.Duration

	// Temperature and MaxTokens are passed to every request. Zero values
	// leave the backend defaults in place.
	Temperature float64
	MaxTokens   int

	// JSONMode asks backends that support it for a JSON reply on every call.
	// Leave it off and mark individual calls with [WithJSON] when some
	// prompts expect plain text.
	JSONMode bool

	// Breaker enables a per-tier circuit breaker when non-nil. An open
	// breaker counts as an overloaded failure.
	Breaker *resilience.BreakerConfig
}

func (c Config) withDefaults() Config {
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = 2
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	return c
}

// Option is a functional option for [New].
type Option func(*Gateway)

// WithSleeper replaces the backoff wait. Tests use it to observe delays
// without sleeping.
func WithSleeper(s resilience.Sleeper) Option {
	return func(g *Gateway) { g.sleep = s }
}

// WithMetrics records attempts and latency to m.
func WithMetrics(m *observe.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// Gateway is safe for concurrent use.
type Gateway struct {
	creds   Credentials
	sleep   resilience.Sleeper
	metrics *observe.Metrics

	mu         sync.RWMutex
	factory    ClientFactory
	cfg        Config
	clients    map[Tier]llm.Provider
	clientKey  string
	generation uint64
	breakers   map[Tier]*resilience.Breaker

	group singleflight.Group
}

// New creates a Gateway. No client is built until the first invocation.
func New(creds Credentials, factory ClientFactory, cfg Config, opts ...Option) *Gateway {
	g := &Gateway{
		creds:   creds,
		sleep:   resilience.Sleep,
		clients: make(map[Tier]llm.Provider),
	}
	for _, o := range opts {
		o(g)
	}
	g.apply(factory, cfg)
	return g
}

// apply installs factory and cfg. Must be called with g.mu held or before g
// is shared.
func (g *Gateway) apply(factory ClientFactory, cfg Config) {
	g.factory = factory
	g.cfg = cfg.withDefaults()
	g.clients = make(map[Tier]llm.Provider)
	g.clientKey = ""
	g.generation++
	g.breakers = nil
	if g.cfg.Breaker != nil {
		g.breakers = make(map[Tier]*resilience.Breaker, 2)
		for _, tier := range []Tier{TierPrimary, TierBackup} {
			bc := *g.cfg.Breaker
			bc.Name = string(tier)
			bc.IsFailure = countsAgainstTier
			userHook := g.cfg.Breaker.OnStateChange
			bc.OnStateChange = func(name string, from, to resilience.State) {
				if g.metrics != nil {
					g.metrics.RecordBreakerTransition(context.Background(), name, to.String())
				}
				if userHook != nil {
					userHook(name, from, to)
				}
			}
			g.breakers[tier] = resilience.NewBreaker(bc)
		}
	}
}

// countsAgainstTier reports whether err says something about the tier's
// health. Credential rejections and caller cancellations do not.
func countsAgainstTier(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return Classify(err) != ClassInvalidKey
}

// Reconfigure swaps the client factory and settings and drops every cached
// client and breaker.
func (g *Gateway) Reconfigure(factory ClientFactory, cfg Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.apply(factory, cfg)
	slog.Info("gateway reconfigured", "max_retries", g.cfg.MaxRetries, "base_delay", g.cfg.BaseDelay)
}

// Reset drops the cached clients so the next invocation rebuilds them with
// the currently resolvable credential.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients = make(map[Tier]llm.Provider)
	g.clientKey = ""
	g.generation++
}

// Configured reports whether a usable credential is currently available.
func (g *Gateway) Configured() bool {
	key, _ := g.creds.Resolve()
	return credential.Usable(key)
}

// client returns the cached provider for tier, creating it on first use.
// Concurrent first callers share a single construction.
func (g *Gateway) client(ctx context.Context, tier Tier) (llm.Provider, error) {
	key, _ := g.creds.Resolve()
	if !credential.Usable(key) {
		return nil, &ConfigurationError{Err: ErrNoCredential}
	}

	g.mu.RLock()
	p, ok := g.clients[tier]
	cached := ok && g.clientKey == key
	factory, gen := g.factory, g.generation
	g.mu.RUnlock()
	if cached {
		return p, nil
	}
	if factory == nil {
		return nil, &ConfigurationError{Err: errors.New("no client factory configured")}
	}

	v, err, _ := g.group.Do(fmt.Sprintf("%s/%d", tier, gen), func() (any, error) {
		g.mu.RLock()
		p, ok := g.clients[tier]
		cached := ok && g.clientKey == key
		g.mu.RUnlock()
		if cached {
			return p, nil
		}

		p, err := factory(ctx, tier, key)
		if err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("create %s client: %w", tier, err)}
		}

		g.mu.Lock()
		if g.generation == gen {
			if g.clientKey != key {
				g.clients = make(map[Tier]llm.Provider)
				g.clientKey = key
			}
			g.clients[tier] = p
		}
		g.mu.Unlock()
		slog.Debug("gateway client created", "tier", tier, "model", p.Model())
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(llm.Provider), nil
}

type jsonKey struct{}

// WithJSON returns a copy of ctx that makes [Gateway.Invoke] ask the backend
// for a JSON reply.
func WithJSON(ctx context.Context) context.Context {
	return context.WithValue(ctx, jsonKey{}, true)
}

// JSONRequested reports whether ctx was marked with [WithJSON].
func JSONRequested(ctx context.Context) bool {
	v, _ := ctx.Value(jsonKey{}).(bool)
	return v
}

// Invoke sends prompt to the model and returns its raw reply.
//
// Failures are reported as *[ConfigurationError] (no call was made) or
// *[ModelError]. Backoff waits end early when ctx is done.
func (g *Gateway) Invoke(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	g.mu.RLock()
	cfg := g.cfg
	breakers := g.breakers
	g.mu.RUnlock()

	backoff := resilience.Backoff{Base: cfg.BaseDelay, MaxRetries: cfg.MaxRetries}
	req := llm.UserPrompt(prompt)
	req.Temperature = cfg.Temperature
	req.MaxTokens = cfg.MaxTokens
	req.JSONMode = cfg.JSONMode || JSONRequested(ctx)

	ctx, span := observe.StartSpan(ctx, "gateway.invoke")
	defer span.End()
	start := time.Now()
	outcome := "error"
	defer func() {
		if g.metrics != nil {
			g.metrics.GatewayDuration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(attribute.String("outcome", outcome)))
		}
	}()

	log := observe.Logger(ctx)
	var state RetryState
	for attempt := 0; attempt < backoff.Attempts(); attempt++ {
		state.Attempt = attempt
		state.Tier = TierForAttempt(attempt)

		if attempt > 0 {
			delay := backoff.Delay(attempt)
			log.Info("model overloaded, retrying", "tier", state.Tier, "attempt", attempt+1, "delay", delay)
			if err := g.sleep(ctx, delay); err != nil {
				span.SetAttributes(attribute.Int("gateway.attempts", attempt))
				return "", &ModelError{Class: ClassNetworkOrOther, Tier: state.Tier, Attempts: attempt, Err: err}
			}
		}

		p, err := g.client(ctx, state.Tier)
		if err != nil {
			span.RecordError(err)
			return "", err
		}

		text, err := g.call(ctx, breakers[state.Tier], p, req)
		if err == nil {
			outcome = "ok"
			g.recordAttempt(ctx, state.Tier, outcome)
			span.SetAttributes(
				attribute.Int("gateway.attempts", attempt+1),
				attribute.String("gateway.tier", string(state.Tier)),
			)
			return text, nil
		}

		state.LastClass = Classify(err)
		state.Failed = true
		g.recordAttempt(ctx, state.Tier, state.LastClass.String())
		log.Warn("model call failed",
			"tier", state.Tier, "model", p.Model(), "attempt", attempt+1,
			"class", state.LastClass.String(), "err", err)

		if state.LastClass != ClassOverloaded || attempt+1 >= backoff.Attempts() {
			span.RecordError(err)
			span.SetAttributes(attribute.Int("gateway.attempts", attempt+1))
			return "", &ModelError{Class: state.LastClass, Tier: state.Tier, Attempts: attempt + 1, Err: err}
		}
	}
	// Unreachable: the loop always returns on its last attempt.
	return "", &ModelError{Class: state.LastClass, Tier: state.Tier, Attempts: state.Attempt + 1}
}

// call runs a single completion, through the tier breaker when one exists.
func (g *Gateway) call(ctx context.Context, b *resilience.Breaker, p llm.Provider, req llm.CompletionRequest) (string, error) {
	var text string
	do := func() error {
		resp, err := p.Complete(ctx, req)
		if err != nil {
			return err
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return ErrEmptyReply
		}
		text = resp.Content
		return nil
	}
	var err error
	if b == nil {
		err = do()
	} else {
		err = b.Execute(do)
	}
	return text, err
}

func (g *Gateway) recordAttempt(ctx context.Context, tier Tier, outcome string) {
	if g.metrics != nil {
		g.metrics.RecordGatewayAttempt(ctx, string(tier), outcome)
	}
}
