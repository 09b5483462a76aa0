package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the first record written by [WriteCSV].
var CSVHeader = []string{"File Name", "Size", "Words", "Characters", "Sentiment", "Language", "Readability Score"}

const missing = "N/A"

// WriteCSV writes rows as CSV with [CSVHeader]. Missing values are "N/A".
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(CSVHeader)
	for _, r := range rows {
		_ = cw.Write([]string{
			r.FileName,
			orMissing(r.Size),
			count(r.Words),
			count(r.Characters),
			sentimentLabel(r),
			languageName(r),
			readabilityScore(r),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("batch: write csv: %w", err)
	}
	return nil
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func count(n int) string {
	if n == 0 {
		return missing
	}
	return strconv.Itoa(n)
}

func sentimentLabel(r Row) string {
	if r.Sentiment == nil {
		return missing
	}
	return orMissing(r.Sentiment.Label)
}

func languageName(r Row) string {
	if r.Language == nil {
		return missing
	}
	return orMissing(r.Language.Name)
}

func readabilityScore(r Row) string {
	if r.Readability == nil {
		return missing
	}
	return strconv.Itoa(r.Readability.Score)
}
