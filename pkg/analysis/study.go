package analysis

// Complexity and quality bands used by the study records.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"

	RatingLow    = "Low"
	RatingMedium = "Medium"
	RatingHigh   = "High"

	QualityPoor      = "Poor"
	QualityGood      = "Good"
	QualityExcellent = "Excellent"
)

// Quiz question kinds.
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionShortAnswer    = "short-answer"
)

// Research is the record result of [OpResearch].
type Research struct {
	Abstract       string   `json:"abstract"`
	KeyFindings    []string `json:"keyFindings"`
	Methodology    string   `json:"methodology"`
	TechnicalTerms []string `json:"technicalTerms"`
	Citations      []string `json:"citations"`

	// Complexity is one of LevelBeginner, LevelIntermediate or LevelAdvanced.
	Complexity string `json:"complexity"`

	Domain          string   `json:"domain"`
	Recommendations []string `json:"recommendations"`
}

// NoteSection is one titled section of [OpStudyNotes] output, such as
// "Key Concepts" or "Definitions".
type NoteSection struct {
	Section string   `json:"section"`
	Content []string `json:"content"`
}

// QuizQuestion is one question of [OpQuiz] output. Multiple-choice questions
// carry Options, Correct and Explanation; short-answer questions carry Answer
// and Points.
type QuizQuestion struct {
	Type     string `json:"type"`
	Question string `json:"question"`

	Options     []string `json:"options,omitempty"`
	Correct     string   `json:"correct,omitempty"`
	Explanation string   `json:"explanation,omitempty"`

	Answer string `json:"answer,omitempty"`
	Points int    `json:"points,omitempty"`
}

// CodeDocs is the record result of [OpCodeDocs].
type CodeDocs struct {
	Language     string   `json:"language"`
	Functions    []string `json:"functions"`
	Classes      []string `json:"classes"`
	APIs         []string `json:"apis"`
	Dependencies []string `json:"dependencies"`

	// Complexity is one of RatingLow, RatingMedium or RatingHigh.
	Complexity string `json:"complexity"`

	// Quality is one of QualityPoor, QualityGood or QualityExcellent.
	Quality string `json:"documentationQuality"`

	MissingElements []string `json:"missingElements"`
	Suggestions     []string `json:"suggestions"`
}

// ProjectIdea is one suggestion of [OpProjectIdeas] output.
type ProjectIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills"`
	Tools       []string `json:"tools"`
}
