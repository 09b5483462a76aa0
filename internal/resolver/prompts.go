package resolver

import (
	"fmt"
	"strings"

	"github.com/MrWong99/wordsmith/internal/normalize"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// optionsTemplate renders the JSON layout for a three-option reply.
func optionsTemplate(titles []string) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, t := range titles {
		fmt.Fprintf(&b, "  {\"option\": %d, \"title\": %q, \"text\": \"...\"}", i+1, t)
		if i < len(titles)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]")
	return b.String()
}

// Prompt builds the model prompt for op. ok is false for operations that are
// never sent to the model.
func Prompt(op analysis.Operation, text string, params analysis.Params) (prompt string, ok bool) {
	params = params.WithDefaults()
	quoted := fmt.Sprintf("Text: %q", text)

	switch op {
	case analysis.OpSentiment:
		return `Analyze the sentiment of the following text and respond with JSON only.
` + quoted + `

JSON format:
{
  "score": integer from -5 to 5,
  "label": "Very Positive" | "Positive" | "Neutral" | "Negative" | "Very Negative",
  "confidence": 0-100,
  "emotions": ["..."],
  "reasoning": "..."
}`, true

	case analysis.OpSummarize:
		return fmt.Sprintf(`Create 3 different summaries of the following text, each in exactly %d sentences. Make each summary unique in style and focus.

%s

Respond with JSON only:
%s`, params.SentenceCount, quoted, optionsTemplate(normalize.DefaultTitles(op, params))), true

	case analysis.OpParaphrase:
		return fmt.Sprintf(`Create 3 different paraphrases of the following text, each with a different approach.

%s

Respond with JSON only:
%s`, quoted, optionsTemplate(normalize.DefaultTitles(op, params))), true

	case analysis.OpTone:
		return fmt.Sprintf(`Rewrite the following text in 3 variations of %s tone, from light to strong.

%s

Respond with JSON only:
%s`, params.Tone, quoted, optionsTemplate(normalize.DefaultTitles(op, params))), true

	case analysis.OpTranslate:
		return fmt.Sprintf(`Translate the following text to %s in 3 different styles.

%s

Respond with JSON only:
%s`, params.TargetLanguage, quoted, optionsTemplate(normalize.DefaultTitles(op, params))), true

	case analysis.OpGrammar:
		return `Analyze this text for grammar, spelling, and style issues.
` + quoted + `

Respond with a JSON array only:
[
  {
    "type": "grammar|spelling|punctuation|style|clarity",
    "message": "...",
    "original": "...",
    "suggestion": "...",
    "severity": "low|medium|high"
  }
]
Return [] when there are no issues.`, true

	case analysis.OpKeywords, analysis.OpHashtags:
		return `Extract at most 10 keywords from the following text. Respond with a JSON array of strings only.
` + quoted, true

	case analysis.OpWritingPrompt:
		keywords := params.Keywords
		if len(keywords) == 0 {
			return "Generate one creative writing prompt inspired by the following text. Respond with the prompt only.\n" + quoted, true
		}
		return "Generate one creative writing prompt with keywords: " + strings.Join(keywords, ", ") + ". Respond with the prompt only.", true

	case analysis.OpOriginality:
		return `Analyze this text for originality and potential plagiarism. Look for:
1. Repetitive phrases that might be copied
2. Unusual writing style changes
3. Very formal or academic language that seems copied
4. Generic or template-like content

` + quoted + `

Respond with JSON only:
{
  "riskLevel": "Low|Medium|High",
  "originalityScore": number between 0 and 100,
  "suspiciousPatterns": ["..."],
  "recommendations": ["..."]
}`, true

	case analysis.OpResearch:
		return `Analyze this research paper or technical document.
` + quoted + `

Respond with JSON only:
{
  "abstract": "...",
  "keyFindings": ["..."],
  "methodology": "...",
  "technicalTerms": ["..."],
  "citations": ["..."],
  "complexity": "Beginner|Intermediate|Advanced",
  "domain": "Computer Science|Mechanical|Electrical|Civil|Chemical|Other",
  "recommendations": ["..."]
}`, true

	case analysis.OpStudyNotes:
		return `Create study notes from this technical content.
` + quoted + `

Respond with a JSON array only:
[
  {"section": "Key Concepts", "content": ["..."]},
  {"section": "Important Formulas", "content": ["..."]},
  {"section": "Definitions", "content": ["term: definition"]},
  {"section": "Summary Points", "content": ["..."]}
]`, true

	case analysis.OpQuiz:
		return `Generate quiz questions from this technical content.
` + quoted + `

Respond with a JSON array only:
[
  {
    "type": "multiple-choice",
    "question": "...",
    "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
    "correct": "A",
    "explanation": "..."
  },
  {
    "type": "short-answer",
    "question": "...",
    "answer": "...",
    "points": 5
  }
]`, true

	case analysis.OpCodeDocs:
		return `Analyze this code documentation or technical specification.
` + quoted + `

Respond with JSON only:
{
  "language": "...",
  "functions": ["..."],
  "classes": ["..."],
  "apis": ["..."],
  "dependencies": ["..."],
  "complexity": "Low|Medium|High",
  "documentationQuality": "Poor|Good|Excellent",
  "missingElements": ["..."],
  "suggestions": ["..."]
}`, true

	case analysis.OpProjectIdeas:
		return `Suggest engineering project ideas based on this technical content.
` + quoted + `

Respond with a JSON array only:
[
  {
    "title": "...",
    "description": "...",
    "difficulty": "Beginner|Intermediate|Advanced",
    "duration": "...",
    "skills": ["..."],
    "tools": ["..."]
  }
]`, true
	}
	return "", false
}
