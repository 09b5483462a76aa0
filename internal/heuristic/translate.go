package heuristic

import (
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// translationTags are the bracketed markers used by the placeholder
// translation. This is not machine translation.
var translationTags = map[string]string{
	"spanish": "[Traducido al español] ",
	"french":  "[Traduit en français] ",
	"german":  "[Ins Deutsche übersetzt] ",
	"italian": "[Tradotto in italiano] ",
}

// Translate returns the placeholder translation of text tagged with the
// target language, in literal, natural and cultural variants that differ only
// cosmetically. Returns nil for blank text.
func Translate(text, targetLanguage string) []analysis.Option {
	if isBlank(text) {
		return nil
	}
	if targetLanguage == "" {
		targetLanguage = analysis.DefaultTargetLanguage
	}
	tag, ok := translationTags[targetLanguage]
	if !ok {
		tag = "[Translated to " + targetLanguage + "] "
	}
	base := tag + text
	return []analysis.Option{
		{Index: 1, Title: "Literal Translation", Text: base},
		{Index: 2, Title: "Natural Translation", Text: base + " (Natural style)"},
		{Index: 3, Title: "Cultural Translation", Text: base + " (Cultural adaptation)"},
	}
}
