package heuristic

import (
	"unicode"

	"github.com/abadojack/whatlanggo"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// minLanguageLetters is the shortest input (in letters) for which trigram
// detection is attempted. Shorter input is reported as undetermined.
const minLanguageLetters = 10

// languageNames maps ISO 639-3 codes to display names. Codes outside the
// table are reported as "Unknown".
var languageNames = map[string]string{
	"eng": "English",
	"spa": "Spanish",
	"fra": "French",
	"deu": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"rus": "Russian",
	"jpn": "Japanese",
	"kor": "Korean",
	"cmn": "Chinese",
	"chi": "Chinese",
	"ara": "Arabic",
	"hin": "Hindi",
}

// LanguageName returns the display name for an ISO 639-3 code.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "Unknown"
}

// DetectLanguage identifies the language of text using trigram statistics.
// Returns nil for blank text.
func DetectLanguage(text string) *analysis.Language {
	if isBlank(text) {
		return nil
	}
	und := &analysis.Language{
		Code:       analysis.UndeterminedLanguage,
		Name:       LanguageName(analysis.UndeterminedLanguage),
		Confidence: analysis.ConfidenceLow,
	}
	if countLetters(text) < minLanguageLetters {
		return und
	}
	info := whatlanggo.Detect(text)
	if info.Lang < 0 {
		return und
	}
	code := info.Lang.Iso6393()
	if code == "" {
		return und
	}
	conf := analysis.ConfidenceHigh
	if !info.IsReliable() {
		conf = analysis.ConfidenceLow
	}
	return &analysis.Language{Code: code, Name: LanguageName(code), Confidence: conf}
}

func countLetters(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
