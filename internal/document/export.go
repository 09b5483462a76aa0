package document

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Export formats accepted by [Export].
const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

const dateLayout = "2006-01-02"

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	}
	return "text/plain; charset=utf-8"
}

// Export writes docs to w in format.
func Export(w io.Writer, docs []Document, format string) error {
	switch format {
	case FormatJSON:
		if docs == nil {
			docs = []Document{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("document: export json: %w", err)
		}
		return nil
	case FormatCSV:
		return exportCSV(w, docs)
	case FormatSummary:
		return exportSummary(w, docs)
	}
	return fmt.Errorf("document: unknown export format %q", format)
}

func exportCSV(w io.Writer, docs []Document) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Name", "Type", "Size", "Word Count", "Upload Date", "Status"})
	for _, d := range docs {
		_ = cw.Write([]string{
			d.Name,
			d.Type,
			analysis.FormatSize(d.Size),
			strconv.Itoa(d.WordCount),
			d.UploadedAt.Format(dateLayout),
			string(d.Status),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("document: export csv: %w", err)
	}
	return nil
}

func exportSummary(w io.Writer, docs []Document) error {
	entries := make([]string, 0, len(docs))
	for _, d := range docs {
		var b strings.Builder
		fmt.Fprintf(&b, "Document: %s\n", d.Name)
		fmt.Fprintf(&b, "Upload Date: %s\n", d.UploadedAt.Format(dateLayout))
		fmt.Fprintf(&b, "Word Count: %d\n", d.WordCount)
		if d.Analysis != nil {
			fmt.Fprintf(&b, "Sentiment: %s\n", sentimentLabel(d.Analysis))
			fmt.Fprintf(&b, "Keywords: %s\n", keywordList(d.Analysis))
			fmt.Fprintf(&b, "Summary: %s\n", firstSummary(d.Analysis))
		}
		b.WriteString("\n---\n")
		entries = append(entries, b.String())
	}
	if _, err := io.WriteString(w, strings.Join(entries, "\n")); err != nil {
		return fmt.Errorf("document: export summary: %w", err)
	}
	return nil
}

func sentimentLabel(bundle map[analysis.Operation]analysis.Result) string {
	if r, ok := bundle[analysis.OpSentiment]; ok && r.Sentiment != nil && r.Sentiment.Label != "" {
		return r.Sentiment.Label
	}
	return "N/A"
}

func keywordList(bundle map[analysis.Operation]analysis.Result) string {
	if r, ok := bundle[analysis.OpKeywords]; ok && len(r.Items) > 0 {
		return strings.Join(r.Items, ", ")
	}
	return "N/A"
}

func firstSummary(bundle map[analysis.Operation]analysis.Result) string {
	if r, ok := bundle[analysis.OpSummarize]; ok && len(r.Options) > 0 {
		return r.Options[0].Text
	}
	return "N/A"
}
