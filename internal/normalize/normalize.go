// Package normalize reconciles the two result producers into the canonical
// shapes of package analysis.
//
// Model replies are free text that is expected, but not guaranteed, to hold
// JSON of a known layout. [Model] parses them leniently: markdown fences and
// surrounding prose are stripped, field names are matched case-insensitively
// against a few aliases, and numbers are accepted as JSON numbers or numeric
// strings. Anything that still does not fit is reported as [ErrSchema] so the
// caller can fall back to the heuristic engine.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// ErrSchema is returned when a model reply cannot be turned into the
// operation's canonical shape.
var ErrSchema = errors.New("normalize: reply does not match schema")

func schemaErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// Model parses a raw model reply for op into a canonical result with Source
// [analysis.SourceAI].
func Model(op analysis.Operation, raw string, params analysis.Params) (analysis.Result, error) {
	params = params.WithDefaults()
	r := analysis.Result{Operation: op, Shape: op.Shape(), Source: analysis.SourceAI}

	if op == analysis.OpWritingPrompt {
		text := strings.Trim(stripMarkdown(raw), "\"“” \n\t")
		if text == "" {
			return analysis.Result{}, schemaErr("empty writing prompt")
		}
		r.Text = text
		return r, nil
	}

	doc, err := parseJSON(raw)
	if err != nil {
		return analysis.Result{}, err
	}

	switch op {
	case analysis.OpSentiment:
		r.Sentiment, err = sentiment(doc)
	case analysis.OpOriginality:
		r.Originality, err = originality(doc)
	case analysis.OpSummarize, analysis.OpParaphrase, analysis.OpTone, analysis.OpTranslate:
		r.Options, err = options(doc, defaultTitles(op, params))
	case analysis.OpGrammar:
		r.Findings, err = findings(doc)
	case analysis.OpKeywords:
		r.Items, err = keywords(doc)
	case analysis.OpHashtags:
		var kw []string
		if kw, err = keywords(doc); err == nil {
			r.Items = heuristic.Hashtags(kw)
		}
	case analysis.OpResearch:
		r.Research, err = research(doc)
	case analysis.OpStudyNotes:
		r.StudyNotes, err = studyNotes(doc)
	case analysis.OpQuiz:
		r.Quiz, err = quiz(doc)
	case analysis.OpCodeDocs:
		r.CodeDocs, err = codeDocs(doc)
	case analysis.OpProjectIdeas:
		r.Projects, err = projectIdeas(doc)
	default:
		err = schemaErr("operation %q has no model reply format", op)
	}
	if err != nil {
		return analysis.Result{}, fmt.Errorf("normalize: %s: %w", op, err)
	}
	return r, nil
}

// Align passes a heuristic result through with field alignment only: the
// shape tag is set from the operation, nil sequences become empty ones and
// option indices are made 1-based and positional.
func Align(r analysis.Result) analysis.Result {
	r.Shape = r.Operation.Shape()
	if r.Source == "" {
		r.Source = analysis.SourceLocal
	}
	if r.Source == analysis.SourceNone {
		return r
	}
	switch r.Shape {
	case analysis.ShapeFindings:
		if r.Findings == nil {
			r.Findings = []analysis.GrammarFinding{}
		}
	case analysis.ShapeList:
		if r.Items == nil {
			r.Items = []string{}
		}
	case analysis.ShapeOptions:
		for i := range r.Options {
			if r.Options[i].Index == 0 {
				r.Options[i].Index = i + 1
			}
		}
	}
	return r
}

var (
	summaryTitles     = []string{"Concise Summary", "Detailed Summary", "Key Points Summary"}
	paraphraseTitles  = []string{"Simple Paraphrase", "Formal Paraphrase", "Creative Paraphrase"}
	translationTitles = []string{"Literal Translation", "Natural Translation", "Cultural Translation"}
)

func defaultTitles(op analysis.Operation, params analysis.Params) []string {
	switch op {
	case analysis.OpSummarize:
		return summaryTitles
	case analysis.OpParaphrase:
		return paraphraseTitles
	case analysis.OpTranslate:
		return translationTitles
	case analysis.OpTone:
		t := heuristic.ToneTitles(params.Tone)
		return t[:]
	}
	return nil
}

// DefaultTitles returns the option titles the model is asked to use for op.
func DefaultTitles(op analysis.Operation, params analysis.Params) []string {
	return append([]string(nil), defaultTitles(op, params.WithDefaults())...)
}

// stripMarkdown removes a surrounding ```json or ``` code fence.
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```JSON", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}

// parseJSON extracts the JSON document from a reply, tolerating code fences
// and prose around the outermost object or array.
func parseJSON(raw string) (gjson.Result, error) {
	s := stripMarkdown(raw)
	if s == "" {
		return gjson.Result{}, schemaErr("empty reply")
	}
	if gjson.Valid(s) {
		return gjson.Parse(s), nil
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return gjson.Result{}, schemaErr("no JSON in reply")
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end <= start || !gjson.Valid(s[start:end+1]) {
		return gjson.Result{}, schemaErr("malformed JSON in reply")
	}
	return gjson.Parse(s[start : end+1]), nil
}
