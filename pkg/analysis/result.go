package analysis

// Source identifies which backend produced a Result.
type Source string

const (
	// SourceAI marks a result parsed from the remote model's reply.
	SourceAI Source = "ai"

	// SourceLocal marks a result computed by the local heuristic engine.
	SourceLocal Source = "local"

	// SourceNone marks the defined empty result returned for blank input.
	SourceNone Source = "none"
)

// Sentiment labels, ordered from most positive to most negative.
const (
	LabelVeryPositive = "Very Positive"
	LabelPositive     = "Positive"
	LabelNeutral      = "Neutral"
	LabelNegative     = "Negative"
	LabelVeryNegative = "Very Negative"
)

// Language confidence values.
const (
	ConfidenceHigh = "High"
	ConfidenceLow  = "Low"
)

// UndeterminedLanguage is the code reported when no language could be
// identified.
const UndeterminedLanguage = "und"

// Result is the canonical, shape-tagged value returned for every operation.
// Exactly one payload field is populated, selected by Shape (and by Operation
// for scalar results). A result with Source [SourceNone] carries no payload.
type Result struct {
	Operation Operation `json:"operation"`
	Shape     Shape     `json:"shape"`
	Source    Source    `json:"source"`

	Sentiment   *Sentiment   `json:"sentiment,omitempty"`
	Readability *Readability `json:"readability,omitempty"`
	Language    *Language    `json:"language,omitempty"`
	Originality *Originality `json:"originality,omitempty"`

	Options  []Option         `json:"options,omitempty"`
	Findings []GrammarFinding `json:"findings,omitempty"`
	Items    []string         `json:"items,omitempty"`
	Text     string           `json:"text,omitempty"`

	Research   *Research      `json:"research,omitempty"`
	StudyNotes []NoteSection  `json:"studyNotes,omitempty"`
	Quiz       []QuizQuestion `json:"quiz,omitempty"`
	CodeDocs   *CodeDocs      `json:"codeDocs,omitempty"`
	Projects   []ProjectIdea  `json:"projects,omitempty"`
}

// Empty returns the defined empty result for op.
func Empty(op Operation) Result {
	return Result{Operation: op, Shape: op.Shape(), Source: SourceNone}
}

// IsEmpty reports whether r carries no payload. A grammar result with zero
// findings is not empty when it came from a backend: "no issues" is a valid
// answer.
func (r Result) IsEmpty() bool {
	switch r.Shape {
	case ShapeScalar:
		return r.Sentiment == nil && r.Readability == nil && r.Language == nil && r.Originality == nil
	case ShapeOptions:
		return len(r.Options) == 0
	case ShapeFindings:
		return r.Source == SourceNone
	case ShapeList:
		return len(r.Items) == 0
	case ShapeText:
		return r.Text == ""
	case ShapeRecord:
		return r.Research == nil && r.CodeDocs == nil &&
			len(r.StudyNotes) == 0 && len(r.Quiz) == 0 && len(r.Projects) == 0
	}
	return true
}

// Sentiment is the scalar result of [OpSentiment].
type Sentiment struct {
	// Score is the overall polarity, clamped to [-5, 5].
	Score int `json:"score"`

	// Comparative is Score normalised by token count (heuristic path) or by
	// the scale maximum (model path).
	Comparative float64 `json:"comparative"`

	Label string `json:"label"`

	// Confidence is a percentage in [0, 100].
	Confidence float64 `json:"confidence"`

	// Positive and Negative are the terms supporting the score.
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`

	Emotions  []string `json:"emotions"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// LabelForScore maps a sentiment score to its five-way label.
func LabelForScore(score int) string {
	switch {
	case score > 2:
		return LabelVeryPositive
	case score > 0:
		return LabelPositive
	case score < -2:
		return LabelVeryNegative
	case score < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Readability is the scalar result of [OpReadability]. Score follows the
// Flesch Reading Ease scale and may be negative for very dense text.
type Readability struct {
	Score     int    `json:"score"`
	Level     string `json:"level"`
	Sentences int    `json:"sentences"`
	Words     int    `json:"words"`
	Syllables int    `json:"syllables"`
}

// LevelForScore bands a Flesch score into one of seven levels.
func LevelForScore(score int) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Graduate"
	}
}

// Language is the scalar result of [OpLanguage].
type Language struct {
	// Code is an ISO 639-3 code or [UndeterminedLanguage].
	Code       string `json:"code"`
	Name       string `json:"name"`
	Confidence string `json:"confidence"`
}

// Originality is the scalar result of [OpOriginality].
type Originality struct {
	// RiskLevel is "Low", "Medium" or "High".
	RiskLevel string `json:"riskLevel"`

	// Score is an originality score in [0, 100]; higher is more original.
	Score int `json:"score"`

	SuspiciousPatterns []string `json:"suspiciousPatterns"`
	Recommendations    []string `json:"recommendations"`
}

// RiskForScore maps an originality score to its risk level.
func RiskForScore(score int) string {
	switch {
	case score < 60:
		return "High"
	case score < 80:
		return "Medium"
	default:
		return "Low"
	}
}

// OptionCount is the number of variants in a complete OptionSet.
const OptionCount = 3

// Option is one labelled variant of an OptionSet. Index is 1-based.
type Option struct {
	Index int    `json:"option"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Grammar finding kinds.
const (
	KindGrammar        = "grammar"
	KindSpelling       = "spelling"
	KindPunctuation    = "punctuation"
	KindStyle          = "style"
	KindClarity        = "clarity"
	KindCapitalization = "capitalization"
	KindSpacing        = "spacing"
)

// Severities for grammar findings.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// GrammarFinding is one issue reported by [OpGrammar].
type GrammarFinding struct {
	Kind       string `json:"type"`
	Message    string `json:"message"`
	Original   string `json:"original"`
	Suggestion string `json:"suggestion,omitempty"`
	Severity   string `json:"severity"`

	// Position is the 0-based sentence index, or -1 when the producer did not
	// report one.
	Position int `json:"position"`
}

// Notification severities.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyDanger  = "danger"
)

// Notification is the side-channel message describing which path served a
// request.
type Notification struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}
