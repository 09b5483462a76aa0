package analysis

import (
	"fmt"
	"strings"
)

// Operation is one discrete text-analysis or text-transformation request kind.
type Operation string

const (
	OpSentiment     Operation = "sentiment"
	OpLanguage      Operation = "language"
	OpSummarize     Operation = "summarize"
	OpGrammar       Operation = "grammar"
	OpParaphrase    Operation = "paraphrase"
	OpTone          Operation = "tone"
	OpTranslate     Operation = "translate"
	OpReadability   Operation = "readability"
	OpKeywords      Operation = "keywords"
	OpHashtags      Operation = "hashtags"
	OpWritingPrompt Operation = "writing_prompt"
	OpOriginality   Operation = "originality"

	OpResearch     Operation = "research_paper"
	OpStudyNotes   Operation = "study_notes"
	OpQuiz         Operation = "quiz"
	OpCodeDocs     Operation = "code_docs"
	OpProjectIdeas Operation = "project_ideas"
)

// Shape is the canonical result shape an operation produces.
type Shape string

const (
	// ShapeScalar is a single measurement record (sentiment, readability,
	// language, originality).
	ShapeScalar Shape = "scalar"

	// ShapeOptions is an OptionSet of exactly three labelled variants.
	ShapeOptions Shape = "options"

	// ShapeFindings is an ordered sequence of grammar findings.
	ShapeFindings Shape = "findings"

	// ShapeList is an ordered list of short strings (keywords, hashtags).
	ShapeList Shape = "list"

	// ShapeText is a single free-form text value (writing prompts).
	ShapeText Shape = "text"

	// ShapeRecord is a structured study record: a research or code
	// documentation review, study notes, quiz questions or project ideas.
	ShapeRecord Shape = "record"
)

type opInfo struct {
	shape  Shape
	remote bool
	title  string
}

var operations = map[Operation]opInfo{
	OpSentiment:     {ShapeScalar, true, "Sentiment Analysis"},
	OpLanguage:      {ShapeScalar, false, "Language Detection"},
	OpSummarize:     {ShapeOptions, true, "Summary"},
	OpGrammar:       {ShapeFindings, true, "Grammar Check"},
	OpParaphrase:    {ShapeOptions, true, "Paraphrase"},
	OpTone:          {ShapeOptions, true, "Tone Adjustment"},
	OpTranslate:     {ShapeOptions, true, "Translation"},
	OpReadability:   {ShapeScalar, false, "Readability"},
	OpKeywords:      {ShapeList, true, "Keywords"},
	OpHashtags:      {ShapeList, true, "Hashtags"},
	OpWritingPrompt: {ShapeText, true, "Writing Prompt"},
	OpOriginality:   {ShapeScalar, true, "Originality Check"},
	OpResearch:      {ShapeRecord, true, "Research Paper Analysis"},
	OpStudyNotes:    {ShapeRecord, true, "Study Notes"},
	OpQuiz:          {ShapeRecord, true, "Quiz Questions"},
	OpCodeDocs:      {ShapeRecord, true, "Code Documentation Review"},
	OpProjectIdeas:  {ShapeRecord, true, "Project Ideas"},
}

// ordered is the presentation order used by Operations.
var ordered = []Operation{
	OpSentiment, OpLanguage, OpReadability, OpSummarize, OpGrammar, OpParaphrase,
	OpTone, OpTranslate, OpKeywords, OpHashtags, OpWritingPrompt, OpOriginality,
	OpResearch, OpStudyNotes, OpQuiz, OpCodeDocs, OpProjectIdeas,
}

var aliases = map[string]Operation{
	"summary":     OpSummarize,
	"tone_adjust": OpTone,
	"toneadjust":  OpTone,
	"translation": OpTranslate,
	"prompt":      OpWritingPrompt,
	"plagiarism":  OpOriginality,
	"research":    OpResearch,
	"notes":       OpStudyNotes,
	"questions":   OpQuiz,
	"code":        OpCodeDocs,
	"projects":    OpProjectIdeas,
}

// Operations returns every supported operation in presentation order.
func Operations() []Operation {
	out := make([]Operation, len(ordered))
	copy(out, ordered)
	return out
}

// ParseOperation resolves a case-insensitive operation name or alias.
func ParseOperation(s string) (Operation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	if op := Operation(name); op.IsValid() {
		return op, nil
	}
	if op, ok := aliases[name]; ok {
		return op, nil
	}
	return "", fmt.Errorf("analysis: unknown operation %q", s)
}

// IsValid reports whether o is a supported operation.
func (o Operation) IsValid() bool {
	_, ok := operations[o]
	return ok
}

// Shape returns the canonical result shape of o. Unknown operations report an
// empty Shape.
func (o Operation) Shape() Shape {
	return operations[o].shape
}

// Remote reports whether the resolver asks the remote model before falling
// back to the heuristic engine. Language detection and readability scoring
// are always computed locally.
func (o Operation) Remote() bool {
	return operations[o].remote
}

// Title returns a human-readable name for o.
func (o Operation) Title() string {
	if info, ok := operations[o]; ok {
		return info.title
	}
	return string(o)
}

// String implements fmt.Stringer.
func (o Operation) String() string { return string(o) }
