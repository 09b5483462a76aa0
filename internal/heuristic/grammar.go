package heuristic

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Grammar runs the sentence-level checks: lowercase sentence start, doubled
// spaces and missing terminal punctuation. An empty, non-nil slice means no
// issues were found.
func Grammar(text string) []analysis.GrammarFinding {
	findings := []analysis.GrammarFinding{}
	for i, s := range Sentences(text) {
		first, size := utf8.DecodeRuneInString(s)
		if unicode.IsLower(first) {
			findings = append(findings, analysis.GrammarFinding{
				Kind:       analysis.KindCapitalization,
				Message:    "Sentence should start with a capital letter",
				Original:   s,
				Suggestion: string(unicode.ToUpper(first)) + s[size:],
				Severity:   analysis.SeverityMedium,
				Position:   i,
			})
		}
		if strings.Contains(s, "  ") {
			findings = append(findings, analysis.GrammarFinding{
				Kind:       analysis.KindSpacing,
				Message:    "Remove extra spaces",
				Original:   s,
				Suggestion: spaceRunRe.ReplaceAllString(s, " "),
				Severity:   analysis.SeverityLow,
				Position:   i,
			})
		}
		if !endsWithTerminal(s) {
			findings = append(findings, analysis.GrammarFinding{
				Kind:       analysis.KindPunctuation,
				Message:    "Consider adding punctuation at the end",
				Original:   s,
				Suggestion: s + ".",
				Severity:   analysis.SeverityMedium,
				Position:   i,
			})
		}
	}
	return findings
}

func endsWithTerminal(s string) bool {
	s = strings.TrimRightFunc(s, isCloser)
	r, _ := utf8.DecodeLastRuneInString(s)
	return isTerminator(r)
}
