package heuristic

import (
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Summarize builds an extractive summary in three focuses: key points (first,
// middle and last sentence), beginning and ending. When the text has fewer
// sentences than requested the original text is returned as a single option.
// Returns nil for blank text.
func Summarize(text string, sentenceCount int) []analysis.Option {
	if isBlank(text) {
		return nil
	}
	if sentenceCount <= 0 {
		sentenceCount = analysis.DefaultSentenceCount
	}
	all := Sentences(text)
	if len(all) < sentenceCount {
		return []analysis.Option{{Index: 1, Title: "Original Text", Text: strings.TrimSpace(text)}}
	}

	keyPoints := []string{all[0], all[len(all)/2], all[len(all)-1]}
	if len(all) < 3 {
		keyPoints = all
	}
	if len(keyPoints) > sentenceCount {
		keyPoints = keyPoints[:sentenceCount]
	}
	return []analysis.Option{
		{Index: 1, Title: "Key Points", Text: strings.Join(keyPoints, " ")},
		{Index: 2, Title: "Beginning Focus", Text: strings.Join(all[:sentenceCount], " ")},
		{Index: 3, Title: "Ending Focus", Text: strings.Join(all[len(all)-sentenceCount:], " ")},
	}
}
