package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// ErrEmptyName is returned by [Manager.Upload] for a document without a name.
var ErrEmptyName = errors.New("document: name must not be empty")

// AnalysisOperations are the operations run by [Manager.Analyze].
var AnalysisOperations = []analysis.Operation{
	analysis.OpSentiment,
	analysis.OpSummarize,
	analysis.OpKeywords,
	analysis.OpGrammar,
	analysis.OpReadability,
}

// Runner resolves one operation. *resolver.Resolver satisfies it.
type Runner interface {
	Resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification)
}

// Upload describes a new document.
type Upload struct {
	Name    string
	Type    string
	Content string
	Tags    []string
}

// Manager implements the document workflows on top of a [Store].
type Manager struct {
	store  Store
	runner Runner
	now    func() time.Time
	newID  func() string
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides document ID generation.
func WithIDGenerator(gen func() string) ManagerOption {
	return func(m *Manager) { m.newID = gen }
}

// NewManager creates a Manager. runner may be nil if Analyze is never called.
func NewManager(store Store, runner Runner, opts ...ManagerOption) *Manager {
	m := &Manager{store: store, runner: runner, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Upload stores a new document and returns it.
func (m *Manager) Upload(ctx context.Context, u Upload) (*Document, error) {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	typ := u.Type
	if typ == "" {
		typ = DefaultType
	}
	stats := heuristic.Statistics(u.Content)
	now := m.now().UTC()
	doc := &Document{
		ID:         m.newID(),
		Name:       name,
		Type:       typ,
		Size:       int64(len(u.Content)),
		Content:    u.Content,
		UploadedAt: now,
		ModifiedAt: now,
		WordCount:  stats.Words,
		CharCount:  stats.Characters,
		Status:     StatusUploaded,
		Tags:       u.Tags,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if err := m.store.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the document with id.
func (m *Manager) Get(ctx context.Context, id string) (*Document, error) {
	return m.store.Get(ctx, id)
}

// Delete removes the document with id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// List returns the documents matching q.
func (m *Manager) List(ctx context.Context, q Query) ([]Document, error) {
	docs, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(docs), nil
}

// Analyze runs [AnalysisOperations] concurrently on the document's content,
// stores the bundle and marks the document analyzed. Operations never fail,
// so the only errors come from the store.
func (m *Manager) Analyze(ctx context.Context, id string) (*Document, error) {
	if m.runner == nil {
		return nil, fmt.Errorf("document: analyze %q: no runner configured", id)
	}
	doc, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		bundle = make(map[analysis.Operation]analysis.Result, len(AnalysisOperations))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, op := range AnalysisOperations {
		g.Go(func() error {
			res, n := m.runner.Resolve(gctx, op, doc.Content, analysis.Params{SentenceCount: 3})
			slog.Debug("document operation resolved", "document", id, "operation", op, "source", res.Source, "severity", n.Severity)
			mu.Lock()
			bundle[op] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	doc.Analysis = bundle
	doc.Status = StatusAnalyzed
	doc.ModifiedAt = m.now().UTC()
	if err := m.store.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
