package heuristic

import (
	"math"
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

const sentimentReasoning = "Basic sentiment analysis"

// Sentiment scores text against the valence lexicon. A negator immediately
// before a scored word flips its sign. Returns nil for blank text.
func Sentiment(text string) *analysis.Sentiment {
	if isBlank(text) {
		return nil
	}
	tokens := Words(text)
	var (
		score    int
		positive []string
		negative []string
	)
	for i, tok := range tokens {
		word := normalizeApostrophe(strings.ToLower(tok))
		v, ok := lexicon[word]
		if !ok {
			continue
		}
		if i > 0 && negators[normalizeApostrophe(strings.ToLower(tokens[i-1]))] {
			v = -v
		}
		score += v
		switch {
		case v > 0:
			positive = appendUnique(positive, word)
		case v < 0:
			negative = appendUnique(negative, word)
		}
	}

	var comparative float64
	if len(tokens) > 0 {
		comparative = float64(score) / float64(len(tokens))
	}
	clamped := max(-5, min(5, score))
	return &analysis.Sentiment{
		Score:       clamped,
		Comparative: round(comparative, 4),
		Label:       analysis.LabelForScore(clamped),
		Confidence:  round(math.Min(100, math.Abs(comparative*100)), 2),
		Positive:    nonNil(positive),
		Negative:    nonNil(negative),
		Emotions:    []string{},
		Reasoning:   sentimentReasoning,
	}
}

func normalizeApostrophe(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
