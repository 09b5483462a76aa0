package heuristic

import (
	"regexp"
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

var (
	synonymRe = regexp.MustCompile(`(?i)\b(good|bad|fast|happy|important)\b`)
	synonyms  = map[string]string{
		"good":      "excellent",
		"bad":       "poor",
		"fast":      "quick",
		"happy":     "joyful",
		"important": "significant",
	}

	expandContractions = strings.NewReplacer("don't", "do not", "can't", "cannot")
)

// Paraphrase produces three naive variants: synonym substitution, contraction
// expansion and a wrapped restatement. Returns nil for blank text.
func Paraphrase(text string) []analysis.Option {
	if isBlank(text) {
		return nil
	}
	simple := synonymRe.ReplaceAllStringFunc(text, func(m string) string {
		if s, ok := synonyms[strings.ToLower(m)]; ok {
			return s
		}
		return m
	})
	return []analysis.Option{
		{Index: 1, Title: "Simple Paraphrase", Text: simple},
		{Index: 2, Title: "Formal Paraphrase", Text: expandContractions.Replace(text)},
		{Index: 3, Title: "Creative Paraphrase", Text: "Here's another way to express this: " + text},
	}
}
