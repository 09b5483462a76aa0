// Package credential resolves the API key used by the model gateway.
//
// Two sources are consulted in priority order: a process environment
// variable, then a key persisted in a local YAML file. The placeholder value
// shipped in sample configuration counts as absent.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultEnvVar is the environment variable read when none is configured.
const DefaultEnvVar = "GEMINI_API_KEY"

// Placeholder is the sample-configuration key value treated as no key.
const Placeholder = "your_gemini_api_key_here"

// Source identifies where a resolved key came from.
type Source string

const (
	SourceEnv   Source = "env"
	SourceStore Source = "store"
	SourceNone  Source = "none"
)

// Usable reports whether key is a real credential: non-blank and not the
// placeholder.
func Usable(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != Placeholder
}

// Store persists a single key locally.
type Store interface {
	// Load returns the stored key, or "" when nothing is stored.
	Load() (string, error)
	Save(key string) error
	Clear() error
}

// ── FileStore ──────────────────────────────────────────────────────────────────

// storedFile is the on-disk layout of a [FileStore].
type storedFile struct {
	APIKey string `yaml:"api_key"`
}

// FileStore is a [Store] backed by a YAML file readable only by its owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store at path. The file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns credentials.yaml under the user's configuration
// directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credential: locate config dir: %w", err)
	}
	return filepath.Join(dir, "wordsmith", "credentials.yaml"), nil
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// Load implements [Store]. A missing file is not an error.
func (s *FileStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credential: read %q: %w", s.path, err)
	}
	var f storedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("credential: parse %q: %w", s.path, err)
	}
	return strings.TrimSpace(f.APIKey), nil
}

// Save implements [Store]. The parent directory is created as needed.
func (s *FileStore) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("credential: refusing to save empty key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credential: create dir: %w", err)
	}
	data, err := yaml.Marshal(storedFile{APIKey: key})
	if err != nil {
		return fmt.Errorf("credential: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("credential: write %q: %w", s.path, err)
	}
	return nil
}

// Clear implements [Store]. Clearing an absent file succeeds.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credential: remove %q: %w", s.path, err)
	}
	return nil
}

// ── Resolver ───────────────────────────────────────────────────────────────────

// Option configures a [Resolver].
type Option func(*Resolver)

// WithEnvVar overrides the environment variable name.
func WithEnvVar(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.envVar = name
		}
	}
}

// WithLookupEnv replaces os.LookupEnv, mainly for tests.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookup = fn }
}

// Resolver finds the active key. It is safe for concurrent use.
type Resolver struct {
	envVar string
	lookup func(string) (string, bool)
	store  Store
}

// NewResolver creates a Resolver. store may be nil, in which case only the
// environment is consulted.
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{
		envVar: DefaultEnvVar,
		lookup: os.LookupEnv,
		store:  store,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the first usable key and where it came from, or
// ("", SourceNone). A store read error is treated as no stored key.
func (r *Resolver) Resolve() (string, Source) {
	if v, ok := r.lookup(r.envVar); ok && Usable(v) {
		return strings.TrimSpace(v), SourceEnv
	}
	if r.store == nil {
		return "", SourceNone
	}
	v, err := r.store.Load()
	if err != nil || !Usable(v) {
		return "", SourceNone
	}
	return v, SourceStore
}

// Save persists key to the local store.
func (r *Resolver) Save(key string) error {
	if r.store == nil {
		return errors.New("credential: no local store configured")
	}
	if !Usable(key) {
		return errors.New("credential: key is empty or a placeholder")
	}
	return r.store.Save(key)
}

// Clear removes the persisted key.
func (r *Resolver) Clear() error {
	if r.store == nil {
		return nil
	}
	return r.store.Clear()
}

// EnvVar returns the environment variable name consulted first.
func (r *Resolver) EnvVar() string { return r.envVar }
