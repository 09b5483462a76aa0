package heuristic

import (
	"math"
	"regexp"
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

var (
	silentSuffixRe = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	vowelGroupRe   = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// Readability computes the Flesch Reading Ease score of text. Returns nil
// when text has no words or no sentences.
func Readability(text string) *analysis.Readability {
	if isBlank(text) {
		return nil
	}
	sentences := len(Sentences(text))
	words := Words(text)
	if sentences == 0 || len(words) == 0 {
		return nil
	}
	syllables := 0
	for _, w := range words {
		syllables += Syllables(w)
	}
	wc := float64(len(words))
	score := 206.835 - 1.015*(wc/float64(sentences)) - 84.6*(float64(syllables)/wc)
	rounded := int(math.Round(score))
	return &analysis.Readability{
		Score:     rounded,
		Level:     analysis.LevelForScore(rounded),
		Sentences: sentences,
		Words:     len(words),
		Syllables: syllables,
	}
}

// Syllables estimates the syllable count of a single word by counting vowel
// groups after stripping a trailing silent -e, -ed or -es. Every word counts
// for at least one syllable.
func Syllables(word string) int {
	w := silentSuffixRe.ReplaceAllString(strings.ToLower(word), "")
	if n := len(vowelGroupRe.FindAllString(w, -1)); n > 0 {
		return n
	}
	return 1
}
