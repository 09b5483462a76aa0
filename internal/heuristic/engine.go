// Package heuristic implements the local, network-free analyzers used when
// the remote model is unavailable or replies with something unusable.
//
// Every analyzer accepts any string, including the empty string, and never
// panics or returns an error. Blank input yields a nil or empty value that
// [Engine.Compute] turns into [analysis.Empty].
package heuristic

import (
	"math/rand/v2"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithPicker sets the function used to pick a writing-prompt template. It
// receives the number of templates and must return an index in [0, n).
// Defaults to math/rand/v2.IntN.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// WithNearDuplicateThreshold sets the Jaro-Winkler similarity at which the
// originality analyzer treats two sentences as near duplicates.
func WithNearDuplicateThreshold(t float64) Option {
	return func(e *Engine) { e.nearDuplicate = t }
}

// Engine dispatches operations to the analyzers in this package. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	pick          func(n int) int
	nearDuplicate float64
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		pick:          rand.IntN,
		nearDuplicate: DefaultNearDuplicateThreshold,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Compute runs the analyzer for op on text. The returned result has Source
// [analysis.SourceLocal], or [analysis.SourceNone] when there is no input
// (see [analysis.HasInput]) or op is unknown.
func (e *Engine) Compute(op analysis.Operation, text string, params analysis.Params) analysis.Result {
	if !op.IsValid() || !analysis.HasInput(op, text, params) {
		return analysis.Empty(op)
	}
	params = params.WithDefaults()
	r := analysis.Result{Operation: op, Shape: op.Shape(), Source: analysis.SourceLocal}

	switch op {
	case analysis.OpSentiment:
		r.Sentiment = Sentiment(text)
	case analysis.OpLanguage:
		r.Language = DetectLanguage(text)
	case analysis.OpReadability:
		r.Readability = Readability(text)
	case analysis.OpOriginality:
		r.Originality = Originality(text, e.nearDuplicate)
	case analysis.OpSummarize:
		r.Options = Summarize(text, params.SentenceCount)
	case analysis.OpParaphrase:
		r.Options = Paraphrase(text)
	case analysis.OpTone:
		r.Options = AdjustTone(text, params.Tone)
	case analysis.OpTranslate:
		r.Options = Translate(text, params.TargetLanguage)
	case analysis.OpGrammar:
		r.Findings = Grammar(text)
	case analysis.OpKeywords:
		r.Items = Keywords(text)
	case analysis.OpHashtags:
		r.Items = Hashtags(Keywords(text))
	case analysis.OpWritingPrompt:
		keywords := params.Keywords
		if len(keywords) == 0 {
			keywords = Keywords(text)
		}
		r.Text = WritingPrompt(keywords, e.pick)
	case analysis.OpResearch:
		r.Research = Research(text)
	case analysis.OpStudyNotes:
		r.StudyNotes = StudyNotes(text)
	case analysis.OpQuiz:
		r.Quiz = Quiz()
	case analysis.OpCodeDocs:
		r.CodeDocs = CodeDocs()
	case analysis.OpProjectIdeas:
		r.Projects = ProjectIdeas()
	}

	// Scalar analyzers return nil when the text has no measurable content.
	if r.Shape == analysis.ShapeScalar && r.IsEmpty() {
		return analysis.Empty(op)
	}
	return r
}

// Statistics computes the writing-statistics dashboard for text.
func (e *Engine) Statistics(text string) analysis.Statistics {
	return Statistics(text)
}
