// Package api exposes the resolver, document manager and batch processor
// over a JSON HTTP interface.
//
// Model failures never surface as HTTP errors: the resolver endpoints always
// answer 200 with a result and a notification. Errors are reserved for bad
// requests, unknown documents and storage failures, and are encoded as
// {"error": "..."}.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/MrWong99/wordsmith/internal/batch"
	"github.com/MrWong99/wordsmith/internal/document"
	"github.com/MrWong99/wordsmith/internal/gateway"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Request body limits.
const (
	maxJSONBody  = 1 << 20
	maxBatchBody = 32 << 20
)

// Runner resolves operations. *resolver.Resolver satisfies it.
type Runner interface {
	Resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification)
	Statistics(text string) analysis.Statistics
}

// StatusChecker reports model connectivity. *gateway.Gateway satisfies it.
type StatusChecker interface {
	Status(ctx context.Context) gateway.KeyCheck
	TestKey(ctx context.Context, key string) (gateway.KeyCheck, error)
}

// KeyStore persists a tested key. *credential.Resolver satisfies it.
type KeyStore interface {
	Save(key string) error
}

// Option configures a [Handler].
type Option func(*Handler)

// WithDocuments enables the /v1/documents routes.
func WithDocuments(m *document.Manager) Option {
	return func(h *Handler) { h.docs = m }
}

// WithBatch enables the /v1/batch route.
func WithBatch(p *batch.Processor) Option {
	return func(h *Handler) { h.batch = p }
}

// WithStatusChecker enables /v1/status and /v1/credentials.
func WithStatusChecker(p StatusChecker) Option {
	return func(h *Handler) { h.checker = p }
}

// WithKeyStore lets /v1/credentials persist a working key. onSaved runs after
// every successful save, typically to drop cached clients.
func WithKeyStore(s KeyStore, onSaved func()) Option {
	return func(h *Handler) {
		h.keys = s
		h.onKeySaved = onSaved
	}
}

// Handler serves the /v1 routes.
type Handler struct {
	runner     Runner
	docs       *document.Manager
	batch      *batch.Processor
	checker    StatusChecker
	keys       KeyStore
	onKeySaved func()

	saveMu sync.Mutex
}

// New creates a Handler. Optional subsystems are enabled with options; their
// routes are not registered otherwise.
func New(runner Runner, opts ...Option) *Handler {
	h := &Handler{runner: runner}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register adds the routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/operations", h.handleOperations)
	mux.HandleFunc("POST /v1/run", h.handleRun)
	mux.HandleFunc("POST /v1/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /v1/statistics", h.handleStatistics)

	if h.batch != nil {
		mux.HandleFunc("POST /v1/batch", h.handleBatch)
	}
	if h.docs != nil {
		mux.HandleFunc("GET /v1/documents", h.handleListDocuments)
		mux.HandleFunc("POST /v1/documents", h.handleUploadDocument)
		mux.HandleFunc("GET /v1/documents/export", h.handleExportDocuments)
		mux.HandleFunc("GET /v1/documents/{id}", h.handleGetDocument)
		mux.HandleFunc("DELETE /v1/documents/{id}", h.handleDeleteDocument)
		mux.HandleFunc("POST /v1/documents/{id}/analyze", h.handleAnalyzeDocument)
	}
	if h.checker != nil {
		mux.HandleFunc("GET /v1/status", h.handleStatus)
		mux.HandleFunc("POST /v1/credentials", h.handleCredentials)
	}
}

// ── helpers ────────────────────────────────────────────────────────────────

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON reads a size-limited JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// storeError maps a document store error to a response.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, document.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	observe.Logger(r.Context()).Error("document store error", "err", err)
	writeError(w, http.StatusInternalServerError, "document store unavailable")
}
