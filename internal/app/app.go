// Package app wires the wordsmith subsystems into a running HTTP service.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves HTTP until the context ends, Reload applies a
// changed configuration, and Shutdown tears everything down in order.
//
// For testing, inject doubles via functional options (WithRegistry,
// WithCredentialStore, WithDocumentStore, ...). When an option is not
// provided, New creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrWong99/wordsmith/internal/api"
	"github.com/MrWong99/wordsmith/internal/batch"
	"github.com/MrWong99/wordsmith/internal/cache"
	"github.com/MrWong99/wordsmith/internal/config"
	"github.com/MrWong99/wordsmith/internal/credential"
	"github.com/MrWong99/wordsmith/internal/document"
	"github.com/MrWong99/wordsmith/internal/gateway"
	"github.com/MrWong99/wordsmith/internal/health"
	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/internal/mcp"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/internal/resilience"
	"github.com/MrWong99/wordsmith/internal/resolver"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

const readHeaderTimeout = 10 * time.Second

// App owns all subsystem lifetimes.
type App struct {
	cfg      *config.Config
	version  string
	level    *slog.LevelVar
	registry *config.Registry
	metrics  *observe.Metrics

	// Subsystems, initialised in New and torn down in Shutdown.
	credStore credential.Store
	creds     *credential.Resolver
	cache     cache.Cache
	gateway   *gateway.Gateway
	resolver  *resolver.Resolver
	store     document.Store
	docs      *document.Manager
	batch     *batch.Processor
	health    *health.Handler
	checkers  []health.Checker
	handler   http.Handler
	server    *http.Server

	// cfgMu guards cfg after New returns.
	cfgMu sync.Mutex

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithRegistry supplies the LLM provider registry. Without it the registry
// is empty and every model call falls back to local analysis.
func WithRegistry(r *config.Registry) Option {
	return func(a *App) { a.registry = r }
}

// WithCredentialStore injects the key store instead of a file store.
func WithCredentialStore(s credential.Store) Option {
	return func(a *App) { a.credStore = s }
}

// WithDocumentStore injects a document store instead of creating one from config.
func WithDocumentStore(s document.Store) Option {
	return func(a *App) { a.store = s }
}

// WithCache injects the result cache instead of creating one from config.
func WithCache(c cache.Cache) Option {
	return func(a *App) { a.cache = c }
}

// WithLevelVar lets Reload change the log level of the caller's handler.
func WithLevelVar(v *slog.LevelVar) Option {
	return func(a *App) { a.level = v }
}

// WithMetrics records to m instead of the global meter provider.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// ─── New ─────────────────────────────────────────────────────────────────────

// New creates an App by wiring all subsystems together. On error, everything
// opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, version: "dev"}
	for _, o := range opts {
		o(a)
	}
	if a.registry == nil {
		a.registry = config.NewRegistry()
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	if a.level == nil {
		a.level = new(slog.LevelVar)
	}
	a.level.Set(LevelFor(cfg.Server.LogLevel))

	if err := a.init(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	// ── 1. Credentials ──────────────────────────────────────────────────
	if err := a.initCredentials(); err != nil {
		return fmt.Errorf("app: init credentials: %w", err)
	}

	// ── 2. Result cache ─────────────────────────────────────────────────
	if err := a.initCache(ctx); err != nil {
		return fmt.Errorf("app: init cache: %w", err)
	}

	// ── 3. Gateway + resolver ───────────────────────────────────────────
	a.gateway = gateway.New(a.creds, a.clientFactory(a.cfg.Gateway), gatewayConfig(a.cfg.Gateway),
		gateway.WithMetrics(a.metrics))

	ropts := []resolver.Option{resolver.WithMetrics(a.metrics)}
	if a.cache != nil {
		ropts = append(ropts, resolver.WithCache(a.cache))
	}
	a.resolver = resolver.New(a.gateway, heuristic.New(), ropts...)

	// ── 4. Document store ───────────────────────────────────────────────
	if err := a.initStorage(ctx); err != nil {
		return fmt.Errorf("app: init storage: %w", err)
	}
	a.docs = document.NewManager(a.store, a.resolver)

	// ── 5. Batch processor ──────────────────────────────────────────────
	a.batch = batch.New(a.resolver,
		batch.WithConcurrency(a.cfg.Batch.Concurrency),
		batch.WithMetrics(a.metrics),
	)

	// ── 6. HTTP surface ─────────────────────────────────────────────────
	a.checkers = append(a.checkers, health.CredentialCheck(a.creds.Resolve))
	a.health = health.New(a.checkers...)
	a.handler = a.buildHandler()
	a.server = &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return nil
}

// ─── Init helpers ────────────────────────────────────────────────────────────

// initCredentials sets up the key store and resolver.
func (a *App) initCredentials() error {
	if a.credStore == nil {
		path := a.cfg.Credentials.StorePath
		if path == "" {
			p, err := credential.DefaultStorePath()
			if err != nil {
				slog.Warn("no user config directory, stored API keys are disabled", "err", err)
			}
			path = p
		}
		if path != "" {
			a.credStore = credential.NewFileStore(path)
		}
	}

	var opts []credential.Option
	if a.cfg.Credentials.EnvVar != "" {
		opts = append(opts, credential.WithEnvVar(a.cfg.Credentials.EnvVar))
	}
	a.creds = credential.NewResolver(a.credStore, opts...)
	_, src := a.creds.Resolve()
	slog.Info("credential resolved", "source", src)
	return nil
}

// initCache creates the configured result cache or uses an injected one.
func (a *App) initCache(ctx context.Context) error {
	if a.cache != nil {
		return nil
	}
	cc := a.cfg.Cache
	switch cc.Backend {
	case config.CacheNone:
		return nil
	case config.CacheRedis:
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cc.Redis.Addr,
			Password: cc.Redis.Password,
			DB:       cc.Redis.DB,
			TTL:      cc.TTL,
		})
		if err != nil {
			return err
		}
		a.cache = rc
		a.checkers = append(a.checkers, health.Ping("redis", rc))
		a.closers = append(a.closers, rc.Close)
	default:
		a.cache = cache.NewMemory(cc.TTL, cc.MaxEntries)
	}
	slog.Info("result cache ready", "backend", a.cache.Name())
	return nil
}

// initStorage sets up the document store or uses an injected one.
func (a *App) initStorage(ctx context.Context) error {
	if a.store != nil {
		return nil
	}
	if a.cfg.Storage.Backend != config.StoragePostgres {
		a.store = document.NewMemStore()
		return nil
	}

	pool, err := pgxpool.New(ctx, a.cfg.Storage.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	ps := document.NewPostgresStore(pool)
	if err := ps.Migrate(ctx); err != nil {
		return err
	}
	a.store = ps
	a.checkers = append(a.checkers, health.Ping("postgres", pool))
	slog.Info("document store ready", "backend", "postgres")
	return nil
}

// buildHandler assembles the HTTP routes behind the observability middleware.
func (a *App) buildHandler() http.Handler {
	mux := http.NewServeMux()
	a.health.Register(mux)
	mux.Handle("GET /metrics", observe.MetricsHandler(nil))

	api.New(a.resolver,
		api.WithDocuments(a.docs),
		api.WithBatch(a.batch),
		api.WithStatusChecker(a.gateway),
		api.WithKeyStore(a.creds, a.credentialChanged),
	).Register(mux)

	if a.cfg.MCP.Enabled {
		mux.Handle(a.cfg.MCP.Path, mcp.Handler(mcp.NewServer(a.resolver, a.version)))
		slog.Info("mcp endpoint enabled", "path", a.cfg.MCP.Path)
	}
	return observe.Middleware(a.metrics)(mux)
}

// clientFactory builds gateway clients from the tier entries of gc. A tier's
// own api_key takes precedence over the resolved credential.
func (a *App) clientFactory(gc config.GatewayConfig) gateway.ClientFactory {
	reg := a.registry
	return func(_ context.Context, tier gateway.Tier, key string) (llm.Provider, error) {
		entry := gc.Primary
		if tier == gateway.TierBackup {
			entry = gc.Backup
		}
		if entry.APIKey == "" {
			entry.APIKey = key
		}
		return reg.CreateLLM(entry)
	}
}

// gatewayConfig converts the YAML gateway settings. An explicit
// max_retries of 0 disables retries.
func gatewayConfig(gc config.GatewayConfig) gateway.Config {
	c := gateway.Config{
		BaseDelay:   gc.BaseDelay,
		Temperature: gc.Temperature,
		MaxTokens:   gc.MaxTokens,
	}
	if gc.MaxRetries != nil {
		c.MaxRetries = *gc.MaxRetries
		if c.MaxRetries == 0 {
			c.MaxRetries = -1
		}
	}
	if cb := gc.CircuitBreaker; cb.Enabled {
		c.Breaker = &resilience.BreakerConfig{
			MaxFailures: cb.MaxFailures,
			Cooldown:    cb.ResetTimeout,
		}
	}
	return c
}

// credentialChanged drops cached clients and re-arms the missing-key notice.
func (a *App) credentialChanged() {
	a.gateway.Reset()
	a.resolver.ResetNotices()
}

// LevelFor maps a config log level to an slog level.
func LevelFor(l config.LogLevel) slog.Level {
	switch l {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ─── Accessors ───────────────────────────────────────────────────────────────

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Resolver returns the operation resolver.
func (a *App) Resolver() *resolver.Resolver { return a.resolver }

// Batch returns the batch processor.
func (a *App) Batch() *batch.Processor { return a.batch }

// Health returns the readiness checker.
func (a *App) Health() *health.Handler { return a.health }

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	return a.cfg
}

// ─── Reload ──────────────────────────────────────────────────────────────────

// Reload applies the hot-reloadable parts of next: the log level and the
// gateway settings. Changes that need a restart are logged. Its signature
// matches the [config.NewWatcher] callback.
func (a *App) Reload(old, next *config.Config) {
	d := config.Diff(old, next)
	if d.Empty() {
		return
	}
	if d.LogLevelChanged {
		a.level.Set(LevelFor(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.GatewayChanged {
		a.gateway.Reconfigure(a.clientFactory(next.Gateway), gatewayConfig(next.Gateway))
		a.resolver.ResetNotices()
	}
	if len(d.RestartRequired) > 0 {
		slog.Warn("config changes need a restart to take effect", "sections", d.RestartRequired)
	}

	a.cfgMu.Lock()
	a.cfg = next
	a.cfgMu.Unlock()
}

// ─── Run ─────────────────────────────────────────────────────────────────────

// Run serves HTTP until ctx is cancelled or the server fails. It returns nil
// after a cancellation; call Shutdown afterwards.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.server.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = a.server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()
	slog.Info("http server listening", "addr", a.server.Addr, "tls", a.cfg.Server.TLS != nil)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	}
}

// ─── Shutdown ────────────────────────────────────────────────────────────────

// Shutdown stops the HTTP server and then runs the closers in order. It
// respects the context deadline: if ctx expires before all closers finish,
// remaining closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		if a.server != nil {
			if err := a.server.Shutdown(ctx); err != nil {
				slog.Warn("http shutdown error", "err", err)
				shutdownErr = err
			}
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}
