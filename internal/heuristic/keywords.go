package heuristic

import (
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

const (
	maxKeywords    = 10
	maxHashtags    = 5
	minKeywordRune = 4
)

var stopwords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "also": true, "because": true,
	"been": true, "before": true, "being": true, "below": true, "between": true, "both": true,
	"could": true, "does": true, "doing": true, "down": true, "during": true, "each": true,
	"from": true, "further": true, "have": true, "having": true, "here": true, "into": true,
	"just": true, "more": true, "most": true, "only": true, "other": true, "over": true,
	"same": true, "should": true, "some": true, "such": true, "than": true, "that": true,
	"their": true, "them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "until": true, "very": true,
	"were": true, "what": true, "when": true, "where": true, "which": true, "while": true,
	"will": true, "with": true, "would": true, "your": true, "yours": true,
}

// Keywords extracts up to ten nouns and adjectives from text using a
// part-of-speech tagger. Consecutive nouns are kept together as one phrase.
// Nouns come before adjectives; duplicates (case-insensitive) and terms of
// three characters or fewer are dropped. When tagging fails the longest
// non-stopword words are used instead.
func Keywords(text string) []string {
	if isBlank(text) {
		return []string{}
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return plainKeywords(text)
	}

	var (
		nouns      []string
		adjectives []string
		phrase     []string
	)
	flush := func() {
		if len(phrase) > 0 {
			nouns = append(nouns, strings.Join(phrase, " "))
			phrase = phrase[:0]
		}
	}
	for _, tok := range doc.Tokens() {
		switch {
		case strings.HasPrefix(tok.Tag, "NN"):
			phrase = append(phrase, tok.Text)
		case strings.HasPrefix(tok.Tag, "JJ"):
			flush()
			adjectives = append(adjectives, tok.Text)
		default:
			flush()
		}
	}
	flush()
	return filterKeywords(append(nouns, adjectives...))
}

func plainKeywords(text string) []string {
	var candidates []string
	for _, w := range Words(text) {
		if !stopwords[strings.ToLower(w)] {
			candidates = append(candidates, w)
		}
	}
	return filterKeywords(candidates)
}

func filterKeywords(candidates []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if utf8.RuneCountInString(c) < minKeywordRune || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// Hashtags turns keywords into at most five hashtags by removing whitespace
// and prefixing '#'.
func Hashtags(keywords []string) []string {
	out := []string{}
	for _, k := range keywords {
		tag := strings.Join(strings.Fields(k), "")
		tag = strings.TrimLeft(tag, "#")
		if tag == "" {
			continue
		}
		out = append(out, "#"+tag)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}
