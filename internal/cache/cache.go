// Package cache stores successful model results so identical requests do not
// reach the model twice. Only results with Source "ai" are cached; local
// results are cheap to recompute.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Cache is a result store keyed by [Key].
type Cache interface {
	// Get returns the cached result for key. ok is false on a miss.
	Get(ctx context.Context, key string) (r analysis.Result, ok bool, err error)

	// Set stores r under key.
	Set(ctx context.Context, key string, r analysis.Result) error

	// Name identifies the backend in metrics.
	Name() string
}

// keyPrefix namespaces cache keys in shared stores.
const keyPrefix = "wordsmith:result:"

// Key derives the cache key for an operation request. Params are normalised
// first so equivalent requests share a key.
func Key(op analysis.Operation, text string, params analysis.Params) string {
	params = params.WithDefaults()
	// Only the parameters the operation reads take part in the key.
	var relevant any
	switch op {
	case analysis.OpTone:
		relevant = params.Tone
	case analysis.OpTranslate:
		relevant = params.TargetLanguage
	case analysis.OpSummarize:
		relevant = params.SentenceCount
	case analysis.OpWritingPrompt:
		relevant = params.Keywords
	}
	pj, _ := json.Marshal(relevant)

	h := sha256.New()
	h.Write([]byte(op))
	h.Write([]byte{0})
	h.Write(pj)
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyPrefix + string(op) + ":" + hex.EncodeToString(h.Sum(nil))
}

// ── Memory ─────────────────────────────────────────────────────────────────────

// DefaultMaxEntries bounds a [Memory] cache created with a non-positive size.
const DefaultMaxEntries = 1024

type memEntry struct {
	result  analysis.Result
	expires time.Time
}

// Memory is an in-process [Cache] with per-entry TTL. When full, expired
// entries are dropped first, then the entry closest to expiry.
type Memory struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memEntry
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a Memory cache. A non-positive ttl means entries never
// expire.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		ttl:     ttl,
		max:     maxEntries,
		now:     time.Now,
		entries: make(map[string]memEntry),
	}
}

// Name implements [Cache].
func (m *Memory) Name() string { return "memory" }

// Get implements [Cache].
func (m *Memory) Get(_ context.Context, key string) (analysis.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return analysis.Result{}, false, nil
	}
	if m.expired(e) {
		delete(m.entries, key)
		return analysis.Result{}, false, nil
	}
	return e.result, true, nil
}

// Set implements [Cache].
func (m *Memory) Set(_ context.Context, key string, r analysis.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		m.evict()
	}
	e := memEntry{result: r}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// collected.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) expired(e memEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

// evict must be called with m.mu held.
func (m *Memory) evict() {
	var (
		victim string
		soonest time.Time
	)
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			continue
		}
		if victim == "" || e.expires.Before(soonest) {
			victim, soonest = k, e.expires
		}
	}
	if len(m.entries) >= m.max && victim != "" {
		delete(m.entries, victim)
	}
}
