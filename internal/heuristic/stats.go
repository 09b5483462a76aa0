package heuristic

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// readingWordsPerMinute is the reading speed used for ReadingMinutes.
const readingWordsPerMinute = 200

// Statistics computes the writing-statistics dashboard for text. Blank text
// yields a zero-valued record.
func Statistics(text string) analysis.Statistics {
	var st analysis.Statistics
	if isBlank(text) {
		return st
	}
	words := fields(text)
	sentences := terminalSegments(text)

	st.Words = len(words)
	st.Sentences = len(sentences)
	st.Paragraphs = len(Paragraphs(text))
	st.Characters = utf8.RuneCountInString(text)
	st.CharactersNoSpaces = utf8.RuneCountInString(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text))

	if st.Sentences > 0 {
		st.AvgWordsPerSentence = round(float64(st.Words)/float64(st.Sentences), 1)
	}
	if st.Words > 0 {
		st.AvgCharsPerWord = round(float64(st.CharactersNoSpaces)/float64(st.Words), 1)
		st.ReadingMinutes = int(math.Ceil(float64(st.Words) / readingWordsPerMinute))
		long := 0
		for _, w := range words {
			if utf8.RuneCountInString(w) > 6 {
				long++
			}
		}
		st.Complexity = round(float64(long)/float64(st.Words)*100, 1)
	}

	for _, s := range sentences {
		switch n := len(strings.Fields(s)); {
		case n <= 10:
			st.ShortSentences++
		case n <= 20:
			st.MediumSentences++
		default:
			st.LongSentences++
		}
	}
	return st
}
