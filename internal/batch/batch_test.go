package batch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/internal/resolver"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// countingRunner wraps a local-only resolver and tracks peak concurrency.
type countingRunner struct {
	inner  *resolver.Resolver
	active atomic.Int32
	peak   atomic.Int32
	calls  atomic.Int32
}

func (c *countingRunner) Resolve(ctx context.Context, op analysis.Operation, text string, p analysis.Params) (analysis.Result, analysis.Notification) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	c.calls.Add(1)
	return c.inner.Resolve(ctx, op, text, p)
}

func newRunner() *countingRunner {
	return &countingRunner{inner: resolver.New(nil, heuristic.New())}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"notes.txt": true,
		"NOTES.TXT": true,
		"notes.md":  false,
		"notes":     false,
		"txt":       false,
	}
	for name, want := range tests {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestProcess(t *testing.T) {
	t.Parallel()

	r := newRunner()
	p := New(r, WithConcurrency(2))
	rows := p.Process(context.Background(), []File{
		{Name: "happy.txt", Content: []byte("I love this wonderful day. Everything is great.")},
		{Name: "image.png", Content: []byte{0x89, 0x50}},
		{Name: "empty.txt"},
	})

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	happy := rows[0]
	if !happy.OK() || happy.FileName != "happy.txt" {
		t.Fatalf("row 0 = %+v", happy)
	}
	if happy.Words != 8 || happy.Size != "47 Bytes" {
		t.Errorf("words = %d size = %q", happy.Words, happy.Size)
	}
	if happy.Sentiment == nil || happy.Sentiment.Score <= 0 {
		t.Errorf("sentiment = %+v", happy.Sentiment)
	}
	if happy.Language == nil || happy.Readability == nil {
		t.Errorf("language = %+v readability = %+v", happy.Language, happy.Readability)
	}

	if rows[1].OK() || rows[1].Error != ErrUnsupportedFile.Error() {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if !rows[2].OK() || rows[2].Sentiment != nil {
		t.Errorf("empty file row = %+v", rows[2])
	}
	if peak := r.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRunner()
	rows := New(r).Process(ctx, []File{{Name: "a.txt", Content: []byte("Hello.")}})
	if rows[0].OK() {
		t.Errorf("row = %+v, want error", rows[0])
	}
	if r.calls.Load() != 0 {
		t.Error("runner called after cancellation")
	}
}

func TestProcess_SerialLimit(t *testing.T) {
	t.Parallel()

	r := newRunner()
	files := make([]File, 5)
	for i := range files {
		files[i] = File{Name: "f.txt", Content: []byte("A calm and pleasant note.")}
	}
	rows := New(r, WithConcurrency(1)).Process(context.Background(), files)
	for i, row := range rows {
		if !row.OK() || row.Sentiment == nil {
			t.Errorf("row %d = %+v", i, row)
		}
	}
	if peak := r.peak.Load(); peak != 1 {
		t.Errorf("peak concurrency = %d, want 1", peak)
	}
}

func TestProcessDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("b.txt", "Second file.")
	mustWrite("a.txt", "First file.")
	mustWrite("c.csv", "x,y")
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	rows, err := New(newRunner()).ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	var names []string
	for _, r := range rows {
		names = append(names, r.FileName)
	}
	if strings.Join(names, ",") != "a.txt,b.txt,c.csv" {
		t.Errorf("names = %v", names)
	}
	if rows[2].OK() {
		t.Error("csv file should be rejected")
	}

	if _, err := New(newRunner()).ProcessDir(context.Background(), filepath.Join(dir, "nope")); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{
			FileName: "a.txt", Size: "1.5 KB", Words: 10, Characters: 52,
			Sentiment:   &analysis.Sentiment{Label: "Positive"},
			Language:    &analysis.Language{Name: "English"},
			Readability: &analysis.Readability{Score: 72},
		},
		{FileName: "b, c.png", Error: ErrUnsupportedFile.Error()},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "File Name,Size,Words,Characters,Sentiment,Language,Readability Score\n" +
		"a.txt,1.5 KB,10,52,Positive,English,72\n" +
		"\"b, c.png\",N/A,N/A,N/A,N/A,N/A,N/A\n"
	if buf.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}
