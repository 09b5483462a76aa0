package heuristic

import (
	"regexp"
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

const (
	maxTechnicalTerms = 10
	maxCitations      = 5
	maxKeyConcepts    = 5
	summaryPointRunes = 200
)

var (
	// Upper-case acronyms, nominalised words and compound method names.
	technicalTermRe = regexp.MustCompile(`\b[A-Z]{2,}\b|(?i:\b\w*(?:tion|ing|ment|ness|ity|ism)\b|\b\w+(?:algorithm|protocol|framework|methodology)\b)`)

	// [12], (2019), Smith et al., Smith (2019)
	citationRe = regexp.MustCompile(`(?i)\[\d+\]|\(\d{4}\)|\w+\s+et\s+al\.|\w+\s+\(\d{4}\)`)
)

// TechnicalTerms returns up to ten distinct technical-looking terms in order
// of first appearance. Duplicates are detected case-insensitively.
func TechnicalTerms(text string) []string {
	return distinctMatches(technicalTermRe, text, maxTechnicalTerms)
}

// Citations returns up to five distinct citation markers in order of first
// appearance.
func Citations(text string) []string {
	return distinctMatches(citationRe, text, maxCitations)
}

// KeyConcepts returns the first five sentences of text without their
// terminal punctuation.
func KeyConcepts(text string) []string {
	out := []string{}
	for _, s := range terminalRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxKeyConcepts {
			break
		}
	}
	return out
}

func distinctMatches(re *regexp.Regexp, text string, limit int) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, m := range re.FindAllString(text, -1) {
		k := strings.ToLower(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Research builds the local research-paper record. Only the technical terms
// and citations are derived from text; the rest are fixed placeholders.
func Research(text string) *analysis.Research {
	if isBlank(text) {
		return nil
	}
	return &analysis.Research{
		Abstract:        "Unable to extract abstract",
		KeyFindings:     []string{"Analysis unavailable"},
		Methodology:     "Not identified",
		TechnicalTerms:  TechnicalTerms(text),
		Citations:       Citations(text),
		Complexity:      analysis.LevelIntermediate,
		Domain:          "Engineering",
		Recommendations: []string{"Review document manually"},
	}
}

// StudyNotes builds two note sections: the key concepts and a summary point
// holding the first 200 characters of text.
func StudyNotes(text string) []analysis.NoteSection {
	if isBlank(text) {
		return nil
	}
	summary := strings.TrimSpace(text)
	if r := []rune(summary); len(r) > summaryPointRunes {
		summary = strings.TrimSpace(string(r[:summaryPointRunes])) + "..."
	}
	return []analysis.NoteSection{
		{Section: "Key Concepts", Content: KeyConcepts(text)},
		{Section: "Summary Points", Content: []string{summary}},
	}
}

// Quiz returns the single generic review question used when no model is
// available.
func Quiz() []analysis.QuizQuestion {
	return []analysis.QuizQuestion{{
		Type:     analysis.QuestionShortAnswer,
		Question: "What are the main concepts discussed in this document?",
		Answer:   "Review the document for key concepts",
		Points:   5,
	}}
}

// CodeDocs returns the neutral code-documentation record.
func CodeDocs() *analysis.CodeDocs {
	return &analysis.CodeDocs{
		Language:        "Not detected",
		Functions:       []string{},
		Classes:         []string{},
		APIs:            []string{},
		Dependencies:    []string{},
		Complexity:      analysis.RatingMedium,
		Quality:         analysis.QualityGood,
		MissingElements: []string{},
		Suggestions:     []string{"Manual review recommended"},
	}
}

// ProjectIdeas returns the default project suggestion.
func ProjectIdeas() []analysis.ProjectIdea {
	return []analysis.ProjectIdea{{
		Title:       "Document Analysis Tool",
		Description: "Create a tool to analyze technical documents",
		Difficulty:  analysis.LevelIntermediate,
		Duration:    "2-3 weeks",
		Skills:      []string{"Programming", "Data Analysis"},
		Tools:       []string{"Text Processing", "AI APIs"},
	}}
}
