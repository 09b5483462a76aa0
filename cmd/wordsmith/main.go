// Command wordsmith is the main entry point for the wordsmith text analysis
// server. It can also run one batch directory or one operation and exit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/MrWong99/wordsmith/internal/app"
	"github.com/MrWong99/wordsmith/internal/batch"
	"github.com/MrWong99/wordsmith/internal/config"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/pkg/analysis"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
	"github.com/MrWong99/wordsmith/pkg/provider/llm/anyllm"
	"github.com/MrWong99/wordsmith/pkg/provider/llm/gemini"
	"github.com/MrWong99/wordsmith/pkg/provider/llm/openai"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "wordsmith.yaml", "path to the YAML configuration file")
	batchDir := flag.String("batch", "", "analyze every .txt file in `dir` once, print CSV and exit")
	outPath := flag.String("out", "", "write -batch CSV to `file` instead of stdout")
	opName := flag.String("op", "", "run one operation on stdin, print JSON and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("wordsmith", version)
		return 0
	}

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, watchPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wordsmith: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	level.Set(app.LevelFor(cfg.Server.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitTelemetry(ctx, observe.TelemetryConfig{
		ServiceVersion: version,
		PrimaryModel:   cfg.Gateway.Primary.Model,
		BackupModel:    cfg.Gateway.Backup.Model,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	application, err := app.New(ctx, cfg,
		app.WithRegistry(reg),
		app.WithLevelVar(level),
		app.WithVersion(version),
	)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.Shutdown(sctx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
	}()

	// ── One-shot modes ────────────────────────────────────────────────────────
	switch {
	case *batchDir != "":
		return runBatch(ctx, application.Batch(), *batchDir, *outPath)
	case *opName != "":
		return runOperation(ctx, application, *opName, os.Stdin, os.Stdout)
	}

	// ── Server mode ───────────────────────────────────────────────────────────
	if watchPath != "" {
		w, err := config.NewWatcher(watchPath, application.Reload)
		if err != nil {
			slog.Warn("config hot reload disabled", "err", err)
		} else {
			defer w.Stop()
		}
	}

	printStartupSummary(cfg)
	slog.Info("server ready, press Ctrl+C to shut down")

	if err := application.Run(ctx); err != nil {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("shutdown signal received, stopping")
	return 0
}

// loadConfig reads path. A missing file at the default path is not an error:
// the defaults are used and hot reload is disabled.
func loadConfig(path string) (cfg *config.Config, watchPath string, err error) {
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err = config.Load(path)
	switch {
	case err == nil:
		return cfg, path, nil
	case errors.Is(err, os.ErrNotExist) && !explicit:
		return config.Default(), "", nil
	case errors.Is(err, os.ErrNotExist):
		return nil, "", fmt.Errorf("config file %q not found", path)
	}
	return nil, "", err
}

// runBatch analyzes dir and writes the CSV report.
func runBatch(ctx context.Context, p *batch.Processor, dir, outPath string) int {
	rows, err := p.ProcessDir(ctx, dir)
	if err != nil {
		slog.Error("batch failed", "dir", dir, "err", err)
		return 1
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			slog.Error("create output file", "path", outPath, "err", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := batch.WriteCSV(out, rows); err != nil {
		slog.Error("write csv", "err", err)
		return 1
	}

	failed := 0
	for _, r := range rows {
		if !r.OK() {
			failed++
		}
	}
	slog.Info("batch complete", "files", len(rows), "failed", failed)
	return 0
}

// runOperation resolves one operation on the text read from in and prints
// the result and notification as JSON.
func runOperation(ctx context.Context, a *app.App, name string, in io.Reader, out io.Writer) int {
	op, err := analysis.ParseOperation(name)
	if err != nil {
		slog.Error("invalid operation", "err", err, "valid", analysis.Operations())
		return 2
	}
	text, err := io.ReadAll(in)
	if err != nil {
		slog.Error("read stdin", "err", err)
		return 1
	}

	res, note := a.Resolver().Resolve(ctx, op, string(text), analysis.Params{})
	slog.Info(note.Message, "severity", note.Severity)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		slog.Error("encode result", "err", err)
		return 1
	}
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// anyllmProviders are the LLM backends reached through any-llm-go. gemini and
// openai have native clients.
var anyllmProviders = []string{"anthropic", "deepseek", "mistral", "groq", "llamacpp", "llamafile", "ollama"}

// registerBuiltinProviders wires all built-in LLM factories into reg. Each
// factory receives a config.ProviderEntry whose APIKey is already resolved.
func registerBuiltinProviders(reg *config.Registry) {
	reg.RegisterLLM("gemini", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []gemini.Option
		if entry.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(entry.BaseURL))
		}
		return gemini.New(context.Background(), entry.APIKey, entry.Model, opts...)
	})

	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []openai.Option
		if entry.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(entry.BaseURL))
		}
		if org := optString(entry.Options, "organization"); org != "" {
			opts = append(opts, openai.WithOrganization(org))
		}
		if d, err := time.ParseDuration(optString(entry.Options, "timeout")); err == nil {
			opts = append(opts, openai.WithTimeout(d))
		}
		return openai.New(entry.APIKey, entry.Model, opts...)
	})

	for _, providerName := range anyllmProviders {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			// ollama is a local server; it uses BaseURL for the address, not an API key.
			if entry.APIKey != "" && providerName != "ollama" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	slog.Debug("registered llm providers", "names", reg.Names())
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        wordsmith startup summary      ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Primary", cfg.Gateway.Primary.Name+" / "+cfg.Gateway.Primary.Model)
	printRow("Backup", cfg.Gateway.Backup.Name+" / "+cfg.Gateway.Backup.Model)
	printRow("Cache", cfg.Cache.Backend)
	printRow("Documents", cfg.Storage.Backend)
	printRow("Batch workers", fmt.Sprint(cfg.Batch.Concurrency))
	if cfg.MCP.Enabled {
		printRow("MCP", cfg.MCP.Path)
	} else {
		printRow("MCP", "(disabled)")
	}
	printRow("Listen addr", cfg.Server.ListenAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-15s : %-19s ║\n", label, value)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
