package document

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory [Store]. The zero value is ready to use.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemStore returns an empty [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]Document)}
}

// Create implements [Store.Create].
func (s *MemStore) Create(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs == nil {
		s.docs = make(map[string]Document)
	}
	if _, ok := s.docs[doc.ID]; ok {
		return fmt.Errorf("document: id %q already exists", doc.ID)
	}
	s.docs[doc.ID] = clone(*doc)
	return nil
}

// Get implements [Store.Get].
func (s *MemStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	d = clone(d)
	return &d, nil
}

// Update implements [Store.Update].
func (s *MemStore) Update(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return ErrNotFound
	}
	s.docs[doc.ID] = clone(*doc)
	return nil
}

// Delete implements [Store.Delete].
func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// List implements [Store.List].
func (s *MemStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, clone(d))
	}
	s.mu.RUnlock()
	return Query{}.Apply(out), nil
}

// clone copies the slices and maps of d so callers cannot mutate stored state.
func clone(d Document) Document {
	d.Tags = slices.Clone(d.Tags)
	d.Analysis = maps.Clone(d.Analysis)
	return d
}
