package heuristic

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	wordRe      = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’-][\p{L}\p{N}]+)*`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	terminalRe  = regexp.MustCompile(`[.!?]+`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// Sentences splits text into trimmed sentences. A sentence ends at a run of
// '.', '!' or '?' (optionally followed by closing quotes or brackets) that is
// followed by whitespace or the end of input, or at a blank line. Spacing
// inside a sentence is preserved.
func Sentences(text string) []string {
	var (
		out   []string
		runes = []rune(text)
		start = 0
	)
	emit := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' && i+1 < len(runes) && blankLineAhead(runes, i+1) {
			emit(i)
			continue
		}
		if !isTerminator(r) {
			continue
		}
		j := i + 1
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}
		for j < len(runes) && isCloser(runes[j]) {
			j++
		}
		if j == len(runes) || unicode.IsSpace(runes[j]) {
			emit(j)
		}
		i = j - 1
	}
	emit(len(runes))
	return out
}

// blankLineAhead reports whether runes[from:] starts with optional horizontal
// whitespace followed by a newline.
func blankLineAhead(runes []rune, from int) bool {
	for k := from; k < len(runes); k++ {
		switch {
		case runes[k] == '\n':
			return true
		case unicode.IsSpace(runes[k]):
			continue
		default:
			return false
		}
	}
	return false
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}

// Words returns the word tokens of text with surrounding punctuation removed.
// Internal apostrophes and hyphens are kept ("don't", "well-known").
func Words(text string) []string {
	return wordRe.FindAllString(text, -1)
}

// fields splits on whitespace only, keeping punctuation attached.
func fields(text string) []string {
	return strings.Fields(text)
}

// terminalSegments splits on runs of terminal punctuation and drops blank
// pieces. It is the coarse sentence count used by the statistics and
// originality analyzers.
func terminalSegments(text string) []string {
	var out []string
	for _, s := range terminalRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Paragraphs splits text on blank lines and drops empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isBlank(text string) bool { return strings.TrimSpace(text) == "" }
