package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/wordsmith/internal/credential"
	"github.com/MrWong99/wordsmith/pkg/provider/llm/gemini"
)

// Defaults applied by [LoadFromReader] and [Default].
const (
	DefaultListenAddr   = ":8080"
	DefaultProvider     = "gemini"
	DefaultBaseDelay    = time.Second
	DefaultCacheTTL     = time.Hour
	DefaultCacheEntries = 1000
	DefaultBatchWorkers = 4
	DefaultMCPPath      = "/mcp"
)

// ValidProviderNames lists the LLM provider names that ship with wordsmith.
// Used by [Validate] to warn about unrecognised names.
var ValidProviderNames = []string{
	"gemini", "openai", "anthropic", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile",
}

// Load reads the YAML configuration file at path and returns a validated
// [Config] with defaults applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and validates
// the result. An empty document yields the default config.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}

	g := &c.Gateway
	if g.Primary.Name == "" {
		g.Primary.Name = DefaultProvider
	}
	if g.Primary.Model == "" && g.Primary.Name == DefaultProvider {
		g.Primary.Model = gemini.DefaultPrimaryModel
	}
	if g.Backup.Name == "" {
		g.Backup.Name = g.Primary.Name
		if g.Backup.BaseURL == "" {
			g.Backup.BaseURL = g.Primary.BaseURL
		}
	}
	if g.Backup.Model == "" {
		if g.Backup.Name == DefaultProvider {
			g.Backup.Model = gemini.DefaultBackupModel
		} else {
			g.Backup.Model = g.Primary.Model
		}
	}
	if g.BaseDelay == 0 {
		g.BaseDelay = DefaultBaseDelay
	}

	if c.Credentials.EnvVar == "" {
		c.Credentials.EnvVar = credential.DefaultEnvVar
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheMemory
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheEntries
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageMemory
	}
	if c.Batch.Concurrency == 0 {
		c.Batch.Concurrency = DefaultBatchWorkers
	}
	if c.MCP.Path == "" {
		c.MCP.Path = DefaultMCPPath
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil && (tls.CertFile == "" || tls.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Gateway
	g := cfg.Gateway
	validateProviderName("gateway.primary", g.Primary.Name)
	validateProviderName("gateway.backup", g.Backup.Name)
	if g.MaxRetries != nil && *g.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("gateway.max_retries %d must not be negative", *g.MaxRetries))
	}
	if g.BaseDelay < 0 {
		errs = append(errs, fmt.Errorf("gateway.base_delay %s must not be negative", g.BaseDelay))
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		errs = append(errs, fmt.Errorf("gateway.temperature %.2f is out of range [0, 2]", g.Temperature))
	}
	if g.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("gateway.max_tokens %d must not be negative", g.MaxTokens))
	}
	if g.CircuitBreaker.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("gateway.circuit_breaker.max_failures %d must not be negative", g.CircuitBreaker.MaxFailures))
	}
	if g.CircuitBreaker.ResetTimeout < 0 {
		errs = append(errs, fmt.Errorf("gateway.circuit_breaker.reset_timeout %s must not be negative", g.CircuitBreaker.ResetTimeout))
	}
	if g.Primary.APIKey == credential.Placeholder || g.Backup.APIKey == credential.Placeholder {
		slog.Warn("gateway api_key is the placeholder value and will be treated as absent")
	}

	// Cache
	switch cfg.Cache.Backend {
	case "", CacheMemory, CacheNone:
	case CacheRedis:
		if cfg.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is invalid; valid values: memory, redis, none", cfg.Cache.Backend))
	}
	if cfg.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl %s must not be negative", cfg.Cache.TTL))
	}
	if cfg.Cache.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache.max_entries %d must not be negative", cfg.Cache.MaxEntries))
	}

	// Storage
	switch cfg.Storage.Backend {
	case "", StorageMemory:
		if cfg.Storage.PostgresDSN != "" {
			slog.Warn("storage.postgres_dsn is set but storage.backend is memory; documents will not be persisted")
		}
	case StoragePostgres:
		if cfg.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required when storage.backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is invalid; valid values: memory, postgres", cfg.Storage.Backend))
	}

	if cfg.Batch.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("batch.concurrency %d must not be negative", cfg.Batch.Concurrency))
	}

	if cfg.MCP.Path != "" && !strings.HasPrefix(cfg.MCP.Path, "/") {
		errs = append(errs, fmt.Errorf("mcp.path %q must start with /", cfg.MCP.Path))
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not one of
// [ValidProviderNames].
func validateProviderName(field, name string) {
	if name == "" || slices.Contains(ValidProviderNames, name) {
		return
	}
	slog.Warn("unknown provider name; may be a typo or a third-party provider",
		"field", field,
		"name", name,
		"known", ValidProviderNames,
	)
}
