package analysis

import "strings"

// Defaults applied by Params.WithDefaults.
const (
	DefaultTone           = "formal"
	DefaultTargetLanguage = "spanish"
	DefaultSentenceCount  = 3
)

// Tones lists the tones supported by the tone adjustment operation.
var Tones = []string{"formal", "casual", "professional", "friendly"}

// Params carries the optional per-operation parameters. Operations ignore the
// fields they do not use.
type Params struct {
	// Tone is the target tone for [OpTone].
	Tone string `json:"tone,omitempty"`

	// TargetLanguage is the lowercase English language name for [OpTranslate].
	TargetLanguage string `json:"targetLanguage,omitempty"`

	// SentenceCount is the requested summary length for [OpSummarize].
	SentenceCount int `json:"sentenceCount,omitempty"`

	// Keywords seed [OpWritingPrompt]. When empty, the resolver extracts them
	// from the text.
	Keywords []string `json:"keywords,omitempty"`
}

// WithDefaults returns a copy of p with zero-valued fields replaced by their
// defaults and string fields lowercased.
func (p Params) WithDefaults() Params {
	p.Tone = strings.ToLower(strings.TrimSpace(p.Tone))
	if p.Tone == "" {
		p.Tone = DefaultTone
	}
	p.TargetLanguage = strings.ToLower(strings.TrimSpace(p.TargetLanguage))
	if p.TargetLanguage == "" {
		p.TargetLanguage = DefaultTargetLanguage
	}
	if p.SentenceCount <= 0 {
		p.SentenceCount = DefaultSentenceCount
	}
	return p
}

// HasInput reports whether there is anything to analyze. Every operation
// needs non-blank text, except [OpWritingPrompt], which can work from
// keywords alone.
func HasInput(op Operation, text string, p Params) bool {
	if strings.TrimSpace(text) != "" {
		return true
	}
	if op != OpWritingPrompt {
		return false
	}
	for _, k := range p.Keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}
