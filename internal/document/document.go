// Package document manages uploaded texts: storage, search, bulk export and a
// one-shot analysis bundle per document.
package document

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// ErrNotFound is returned when no document has the requested ID.
var ErrNotFound = errors.New("document: not found")

// DefaultType is the MIME type assumed when an upload does not name one.
const DefaultType = "text/plain"

// Status is the lifecycle state of a [Document].
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusAnalyzed Status = "analyzed"
)

// Document is one stored text.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploadDate"`
	ModifiedAt time.Time `json:"lastModified"`
	WordCount  int       `json:"wordCount"`
	CharCount  int       `json:"charCount"`
	Status     Status    `json:"status"`
	Tags       []string  `json:"tags"`

	// Analysis holds the results of the last [Manager.Analyze] run, keyed by
	// operation. Nil until the document is analyzed.
	Analysis map[analysis.Operation]analysis.Result `json:"analysis,omitempty"`
}

// Filter values accepted by [Query].
const (
	FilterAll        = "all"
	FilterAnalyzed   = "analyzed"
	FilterUnanalyzed = "unanalyzed"
	FilterText       = "text"
)

// Sort orders accepted by [Query].
const (
	SortDate = "date"
	SortName = "name"
	SortSize = "size"
)

// Query selects and orders documents.
type Query struct {
	// Search matches name or content, case-insensitively.
	Search string
	// Filter is one of the Filter constants. Empty means all.
	Filter string
	// Sort is one of the Sort constants. Empty means newest first.
	Sort string
}

// Apply returns the documents of docs matching q in q's order. docs is not
// modified.
func (q Query) Apply(docs []Document) []Document {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(d.Name), needle) &&
			!strings.Contains(strings.ToLower(d.Content), needle) {
			continue
		}
		switch q.Filter {
		case FilterAnalyzed:
			if d.Status != StatusAnalyzed {
				continue
			}
		case FilterUnanalyzed:
			if d.Status == StatusAnalyzed {
				continue
			}
		case FilterText:
			if !strings.Contains(d.Type, "text") {
				continue
			}
		}
		out = append(out, d)
	}

	switch q.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b Document) int { return cmp.Compare(a.Name, b.Name) })
	case SortSize:
		slices.SortStableFunc(out, func(a, b Document) int { return cmp.Compare(b.Size, a.Size) })
	default:
		slices.SortStableFunc(out, func(a, b Document) int { return b.UploadedAt.Compare(a.UploadedAt) })
	}
	return out
}
