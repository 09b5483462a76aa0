// Package resolver is the single entry point for running an operation. It
// asks the model first, falls back to the local heuristic engine on any
// failure and never returns an error: every call yields a result of the
// operation's shape plus a notification describing which path served it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MrWong99/wordsmith/internal/cache"
	"github.com/MrWong99/wordsmith/internal/gateway"
	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/internal/normalize"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Model is the remote path. *gateway.Gateway satisfies it.
type Model interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Notifier receives the notification of every [Resolver.Run] call.
type Notifier func(ctx context.Context, n analysis.Notification)

// Option is a functional option for [New].
type Option func(*Resolver)

// WithCache stores model results in c and serves repeats from it.
func WithCache(c cache.Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithMetrics records resolutions and fallbacks to m.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithNotifier sets the callback used by [Resolver.Run].
func WithNotifier(n Notifier) Option {
	return func(r *Resolver) { r.notify = n }
}

// Resolver is safe for concurrent use.
type Resolver struct {
	model   Model
	engine  *heuristic.Engine
	cache   cache.Cache
	metrics *observe.Metrics
	notify  Notifier

	// configWarned is set once the missing-credential warning was emitted.
	configWarned atomic.Bool
}

// New creates a Resolver. model may be nil, in which case every operation is
// served locally.
func New(model Model, engine *heuristic.Engine, opts ...Option) *Resolver {
	if engine == nil {
		engine = heuristic.New()
	}
	r := &Resolver{model: model, engine: engine}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResetNotices re-arms one-time notices, such as the missing-credential
// warning. Call it after the credential changes.
func (r *Resolver) ResetNotices() {
	r.configWarned.Store(false)
}

// Run resolves op and delivers the notification to the configured notifier.
func (r *Resolver) Run(ctx context.Context, op analysis.Operation, text string, params analysis.Params) analysis.Result {
	res, n := r.Resolve(ctx, op, text, params)
	if r.notify != nil {
		r.notify(ctx, n)
	}
	return res
}

// Resolve runs op on text and returns the result together with the
// notification describing how it was produced.
func (r *Resolver) Resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "resolver.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("operation", string(op)))

	res, n := r.resolve(ctx, op, text, params)

	span.SetAttributes(attribute.String("source", string(res.Source)))
	if r.metrics != nil {
		r.metrics.RecordResolve(ctx, string(op), string(res.Source), time.Since(start).Seconds())
	}
	return res, n
}

func (r *Resolver) resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification) {
	if !op.IsValid() {
		return analysis.Empty(op), notice(analysis.NotifyDanger, fmt.Sprintf("Unknown operation %q", op))
	}
	if !analysis.HasInput(op, text, params) {
		return analysis.Empty(op), notice(analysis.NotifyWarning, "Please enter some text to analyze")
	}
	params = params.WithDefaults()

	if !op.Remote() || r.model == nil {
		return r.local(op, text, params), notice(analysis.NotifyInfo, op.Title()+" computed locally")
	}

	res, err := r.tryModel(ctx, op, text, params)
	if err == nil {
		return res, notice(analysis.NotifySuccess, successMessage(op, params))
	}

	reason, n := r.fallbackNotice(err)
	observe.Logger(ctx).Warn("model path failed, using local analysis",
		"operation", op, "reason", reason, "err", err)
	if r.metrics != nil {
		r.metrics.RecordFallback(ctx, string(op), reason)
	}
	return r.local(op, text, params), n
}

// tryModel asks the model, consulting the cache first. A reply that does not
// normalise is an error like any gateway failure.
func (r *Resolver) tryModel(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, error) {
	key := cache.Key(op, text, params)
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("result cache lookup failed", "backend", r.cache.Name(), "err", err)
		}
		if r.metrics != nil {
			r.metrics.RecordCacheLookup(ctx, r.cache.Name(), ok)
		}
		if ok && cached.Operation == op && !cached.IsEmpty() {
			return cached, nil
		}
	}

	prompt, ok := Prompt(op, text, params)
	if !ok {
		return analysis.Result{}, fmt.Errorf("resolver: no prompt for %s", op)
	}
	if wantsJSON(op) {
		ctx = gateway.WithJSON(ctx)
	}
	raw, err := r.model.Invoke(ctx, prompt)
	if err != nil {
		return analysis.Result{}, err
	}
	res, err := normalize.Model(op, raw, params)
	if err != nil {
		return analysis.Result{}, err
	}

	// Writing prompts are randomised on purpose; do not pin one.
	if r.cache != nil && op != analysis.OpWritingPrompt {
		if err := r.cache.Set(ctx, key, res); err != nil {
			slog.Warn("result cache store failed", "backend", r.cache.Name(), "err", err)
		}
	}
	return res, nil
}

// wantsJSON reports whether the model is asked for a JSON reply for op.
// Writing prompts come back as plain text.
func wantsJSON(op analysis.Operation) bool {
	return op.Shape() != analysis.ShapeText
}

func (r *Resolver) local(op analysis.Operation, text string, params analysis.Params) analysis.Result {
	return normalize.Align(r.engine.Compute(op, text, params))
}

// Statistics returns the local writing statistics for text.
func (r *Resolver) Statistics(text string) analysis.Statistics {
	return r.engine.Statistics(text)
}

// Fallback notification texts.
const (
	msgNoKey       = "AI features need a Gemini API key. Showing local analysis instead."
	msgNoKeyRepeat = "Showing local analysis (no API key configured)."
	msgOverloaded  = "The AI service is busy right now. Showing local analysis instead."
	msgInvalidKey  = "The API key was rejected. Check that it is valid. Showing local analysis instead."
	msgUnavailable = "AI analysis is unavailable. Showing local analysis instead."
)

// fallbackNotice maps a model-path failure to a metrics reason and the
// notification shown to the user.
func (r *Resolver) fallbackNotice(err error) (string, analysis.Notification) {
	var (
		cfgErr   *gateway.ConfigurationError
		modelErr *gateway.ModelError
	)
	switch {
	case errors.As(err, &cfgErr):
		if r.configWarned.CompareAndSwap(false, true) {
			return "configuration", notice(analysis.NotifyWarning, msgNoKey)
		}
		return "configuration", notice(analysis.NotifyInfo, msgNoKeyRepeat)
	case errors.Is(err, normalize.ErrSchema):
		return "schema", notice(analysis.NotifyInfo, msgUnavailable)
	case errors.As(err, &modelErr):
		switch modelErr.Class {
		case gateway.ClassOverloaded:
			return "overloaded", notice(analysis.NotifyWarning, msgOverloaded)
		case gateway.ClassInvalidKey:
			return "invalid_key", notice(analysis.NotifyDanger, msgInvalidKey)
		}
		return "network_or_other", notice(analysis.NotifyInfo, msgUnavailable)
	}
	return "other", notice(analysis.NotifyInfo, msgUnavailable)
}

func successMessage(op analysis.Operation, params analysis.Params) string {
	switch op {
	case analysis.OpSummarize:
		return "Summary generated!"
	case analysis.OpParaphrase:
		return "Text paraphrased!"
	case analysis.OpTone:
		return "Tone adjusted to " + params.Tone + "!"
	case analysis.OpTranslate:
		return "Text translated to " + params.TargetLanguage + "!"
	case analysis.OpWritingPrompt:
		return "New writing prompt generated!"
	}
	return op.Title() + " completed with AI"
}

func notice(severity, msg string) analysis.Notification {
	return analysis.Notification{Message: msg, Severity: severity}
}
