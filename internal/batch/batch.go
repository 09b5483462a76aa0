// Package batch analyzes many plain-text files at once and exports a CSV
// summary of the results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/internal/observe"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// ErrUnsupportedFile is recorded for files that are not .txt.
var ErrUnsupportedFile = errors.New("batch: only .txt files are supported")

// DefaultConcurrency bounds the number of files analyzed at once.
const DefaultConcurrency = 4

// Runner resolves one operation. *resolver.Resolver satisfies it.
type Runner interface {
	Resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification)
}

// File is one input to [Processor.Process].
type File struct {
	Name    string
	Content []byte
}

// Row is the analysis of one file. On failure only FileName and Error are
// set.
type Row struct {
	FileName    string                `json:"fileName"`
	Size        string                `json:"fileSize,omitempty"`
	Words       int                   `json:"wordCount,omitempty"`
	Characters  int                   `json:"charCount,omitempty"`
	Sentiment   *analysis.Sentiment   `json:"sentiment,omitempty"`
	Language    *analysis.Language    `json:"language,omitempty"`
	Readability *analysis.Readability `json:"readability,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// OK reports whether the file was analyzed.
func (r Row) OK() bool { return r.Error == "" }

// Option configures a [Processor].
type Option func(*Processor)

// WithConcurrency sets how many files are analyzed at once. Values below 1
// are ignored.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithMetrics counts processed files in m.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// Processor runs the per-file analysis.
type Processor struct {
	runner      Runner
	concurrency int
	metrics     *observe.Metrics
}

// New creates a Processor that resolves operations through runner.
func New(runner Runner, opts ...Option) *Processor {
	p := &Processor{runner: runner, concurrency: DefaultConcurrency}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Supported reports whether name has the .txt extension.
func Supported(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

// Process analyzes files and returns one row per file in input order. A
// failing file yields an error row; it never aborts the batch.
func (p *Processor) Process(ctx context.Context, files []File) []Row {
	rows := make([]Row, len(files))
	// Workers never fail; the group only bounds concurrency.
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, f := range files {
		g.Go(func() error {
			rows[i] = p.analyze(ctx, f)
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func (p *Processor) analyze(ctx context.Context, f File) Row {
	row := Row{FileName: f.Name}
	if !Supported(f.Name) {
		row.Error = ErrUnsupportedFile.Error()
		p.record(ctx, "unsupported")
		return row
	}
	if err := ctx.Err(); err != nil {
		row.Error = err.Error()
		p.record(ctx, "error")
		return row
	}

	text := string(f.Content)
	stats := heuristic.Statistics(text)
	row.Size = analysis.FormatSize(int64(len(f.Content)))
	row.Words = stats.Words
	row.Characters = stats.Characters

	sentiment, _ := p.runner.Resolve(ctx, analysis.OpSentiment, text, analysis.Params{})
	language, _ := p.runner.Resolve(ctx, analysis.OpLanguage, text, analysis.Params{})
	readability, _ := p.runner.Resolve(ctx, analysis.OpReadability, text, analysis.Params{})
	row.Sentiment = sentiment.Sentiment
	row.Language = language.Language
	row.Readability = readability.Readability

	p.record(ctx, "ok")
	return row
}

func (p *Processor) record(ctx context.Context, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordBatchFile(ctx, outcome)
	}
}

// ProcessDir analyzes every regular file directly inside dir, sorted by
// name. Subdirectories are skipped; non-.txt files produce error rows.
func (p *Processor) ProcessDir(ctx context.Context, dir string) ([]Row, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read dir: %w", err)
	}
	var files []File
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		f := File{Name: e.Name()}
		if Supported(e.Name()) {
			content, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("batch: read %s: %w", e.Name(), err)
			}
			f.Content = content
		}
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Name, b.Name) })
	return p.Process(ctx, files), nil
}
