package analysis

// Statistics is the writing-statistics dashboard for a text.
type Statistics struct {
	Words               int     `json:"words"`
	Sentences           int     `json:"sentences"`
	Paragraphs          int     `json:"paragraphs"`
	Characters          int     `json:"characters"`
	CharactersNoSpaces  int     `json:"charactersNoSpaces"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence"`
	AvgCharsPerWord     float64 `json:"avgCharsPerWord"`

	// ReadingMinutes assumes 200 words per minute, rounded up.
	ReadingMinutes int `json:"readingMinutes"`

	// Complexity is the percentage of words longer than six characters.
	Complexity float64 `json:"complexity"`

	ShortSentences  int `json:"shortSentences"`
	MediumSentences int `json:"mediumSentences"`
	LongSentences   int `json:"longSentences"`
}
