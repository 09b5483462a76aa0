package heuristic

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

func TestSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantScore int
		wantLabel string
		wantPos   []string
		wantNeg   []string
	}{
		{"very positive clamps", "I love this amazing product", 5, analysis.LabelVeryPositive, []string{"love", "amazing"}, []string{}},
		{"positive", "It was a nice day", 3, analysis.LabelVeryPositive, []string{"nice"}, []string{}},
		{"mild positive", "I like it", 2, analysis.LabelPositive, []string{"like"}, []string{}},
		{"neutral", "The table is brown.", 0, analysis.LabelNeutral, []string{}, []string{}},
		{"negated", "This is not good", -3, analysis.LabelVeryNegative, []string{}, []string{"good"}},
		{"negative", "I am tired", -2, analysis.LabelNegative, []string{}, []string{"tired"}},
		{"curly apostrophe negation", "I don’t like it", -2, analysis.LabelNegative, []string{}, []string{"like"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Sentiment(tt.text)
			if s == nil {
				t.Fatal("Sentiment returned nil")
			}
			if s.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", s.Score, tt.wantScore)
			}
			if s.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", s.Label, tt.wantLabel)
			}
			if !reflect.DeepEqual(s.Positive, tt.wantPos) {
				t.Errorf("Positive = %q, want %q", s.Positive, tt.wantPos)
			}
			if !reflect.DeepEqual(s.Negative, tt.wantNeg) {
				t.Errorf("Negative = %q, want %q", s.Negative, tt.wantNeg)
			}
			if s.Confidence < 0 || s.Confidence > 100 {
				t.Errorf("Confidence = %v, want within [0,100]", s.Confidence)
			}
			if s.Reasoning != sentimentReasoning {
				t.Errorf("Reasoning = %q", s.Reasoning)
			}
		})
	}

	if Sentiment("   ") != nil {
		t.Error("Sentiment(blank) should be nil")
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantName string
	}{
		{"english", "The quick brown fox jumps over the lazy dog while the farmer watches from the porch.", "eng", "English"},
		{"spanish", "El rápido zorro marrón salta sobre el perro perezoso mientras el granjero mira desde la casa.", "spa", "Spanish"},
		{"too short", "Hi there", analysis.UndeterminedLanguage, "Unknown"},
		{"digits only", "1234567890 1234567890", analysis.UndeterminedLanguage, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DetectLanguage(tt.text)
			if got == nil {
				t.Fatal("DetectLanguage returned nil")
			}
			if got.Code != tt.wantCode || got.Name != tt.wantName {
				t.Errorf("DetectLanguage = %+v, want code %q name %q", got, tt.wantCode, tt.wantName)
			}
			if got.Code == analysis.UndeterminedLanguage && got.Confidence != analysis.ConfidenceLow {
				t.Errorf("undetermined confidence = %q, want Low", got.Confidence)
			}
		})
	}

	if DetectLanguage("") != nil {
		t.Error("DetectLanguage(empty) should be nil")
	}
	if LanguageName("xyz") != "Unknown" {
		t.Error("unmapped code should be Unknown")
	}
}

func TestReadability_ShortSentence(t *testing.T) {
	t.Parallel()

	r := Readability("Cats run.")
	if r == nil {
		t.Fatal("Readability returned nil")
	}
	if r.Words != 2 || r.Sentences != 1 {
		t.Errorf("words=%d sentences=%d, want 2 and 1", r.Words, r.Sentences)
	}
	if r.Syllables < 2 {
		t.Errorf("syllables = %d, want >= 2", r.Syllables)
	}
	// 206.835 - 1.015*2 - 84.6*1
	if r.Score != 120 {
		t.Errorf("score = %d, want 120", r.Score)
	}
	if r.Level != "Very Easy" {
		t.Errorf("level = %q, want Very Easy", r.Level)
	}
}

func TestReadability_Degenerate(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "...", "?!"} {
		if r := Readability(in); r != nil {
			t.Errorf("Readability(%q) = %+v, want nil", in, r)
		}
	}
}

func TestReadability_Idempotent(t *testing.T) {
	t.Parallel()

	text := "Readability formulas estimate difficulty. They are crude but useful."
	a, b := Readability(text), Readability(text)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Readability not deterministic: %+v vs %+v", a, b)
	}
}

func TestSyllables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"the", 1},
		{"running", 2},
		{"created", 1},
		{"rhythm", 1},
		{"", 1},
		{"CAT", 1},
	}
	for _, tt := range tests {
		if got := Syllables(tt.word); got != tt.want {
			t.Errorf("Syllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestGrammar(t *testing.T) {
	t.Parallel()

	got := Grammar("this is wrong.  Another  one")
	want := []analysis.GrammarFinding{
		{Kind: analysis.KindCapitalization, Message: "Sentence should start with a capital letter", Original: "this is wrong.", Suggestion: "This is wrong.", Severity: analysis.SeverityMedium, Position: 0},
		{Kind: analysis.KindSpacing, Message: "Remove extra spaces", Original: "Another  one", Suggestion: "Another one", Severity: analysis.SeverityLow, Position: 1},
		{Kind: analysis.KindPunctuation, Message: "Consider adding punctuation at the end", Original: "Another  one", Suggestion: "Another  one.", Severity: analysis.SeverityMedium, Position: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Grammar =\n%+v\nwant\n%+v", got, want)
	}
}

func TestGrammar_NoIssues(t *testing.T) {
	t.Parallel()

	got := Grammar(`All good here. She said "fine."`)
	if got == nil || len(got) != 0 {
		t.Errorf("Grammar = %+v, want empty non-nil slice", got)
	}
	if got := Grammar(""); got == nil || len(got) != 0 {
		t.Errorf("Grammar(empty) = %+v, want empty non-nil slice", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := Summarize("One. Two. Three. Four. Five.", 3)
	want := []analysis.Option{
		{Index: 1, Title: "Key Points", Text: "One. Three. Five."},
		{Index: 2, Title: "Beginning Focus", Text: "One. Two. Three."},
		{Index: 3, Title: "Ending Focus", Text: "Three. Four. Five."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}

	short := Summarize("Only one. And two.", 3)
	if len(short) != 1 || short[0].Title != "Original Text" || short[0].Text != "Only one. And two." {
		t.Errorf("Summarize(short) = %+v", short)
	}

	exact := Summarize("A. B. C.", 3)
	if len(exact) != 3 {
		t.Errorf("Summarize(exact) len = %d, want 3", len(exact))
	}

	one := Summarize("One. Two. Three. Four.", 1)
	if one[0].Text != "One." || one[1].Text != "One." || one[2].Text != "Four." {
		t.Errorf("Summarize(n=1) = %+v", one)
	}

	if Summarize("", 3) != nil {
		t.Error("Summarize(empty) should be nil")
	}
}

func TestParaphrase(t *testing.T) {
	t.Parallel()

	got := Paraphrase("This is a Good and fast idea. I don't know.")
	want := []string{
		"This is a excellent and quick idea. I don't know.",
		"This is a Good and fast idea. I do not know.",
		"Here's another way to express this: This is a Good and fast idea. I don't know.",
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, o := range got {
		if o.Index != i+1 || o.Text != want[i] {
			t.Errorf("option %d = %+v, want text %q", i+1, o, want[i])
		}
	}
	// Word boundaries: "goodness" must not change.
	if g := Paraphrase("goodness"); g[0].Text != "goodness" {
		t.Errorf("simple paraphrase touched substring: %q", g[0].Text)
	}
}

func TestAdjustTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tone string
		text string
		want [3]string
	}{
		{"formal", "I'm sure I can't go.", [3]string{
			"I'm sure I cannot go.",
			"I am sure I cannot go.",
			"I would like to formally present the following: I am sure I cannot go.",
		}},
		{"casual", "I am sure I cannot go.", [3]string{
			"I am sure I can't go.",
			"I'm sure I can't go.",
			"Hey! I am sure I can't go. 😊",
		}},
		{"professional", "Ship it.", [3]string{
			"Please note: Ship it.",
			"I would like to present: Ship it.",
			"In a professional capacity, I wish to communicate: Ship it.",
		}},
		{"friendly", "Ship it.", [3]string{
			"Hi there! Ship it.",
			"Hey friend! Ship it. Hope this helps!",
			"Hello! 😊 Ship it. Have a great day!",
		}},
		{"sarcastic", "Ship it.", [3]string{"Ship it.", "Ship it.", "Ship it."}},
	}
	for _, tt := range tests {
		t.Run(tt.tone, func(t *testing.T) {
			t.Parallel()
			got := AdjustTone(tt.text, tt.tone)
			if len(got) != 3 {
				t.Fatalf("len = %d, want 3", len(got))
			}
			titles := ToneTitles(tt.tone)
			for i, o := range got {
				if o.Text != tt.want[i] {
					t.Errorf("option %d text = %q, want %q", i+1, o.Text, tt.want[i])
				}
				if o.Title != titles[i] {
					t.Errorf("option %d title = %q, want %q", i+1, o.Title, titles[i])
				}
			}
		})
	}
	if got := ToneTitles("casual"); got[0] != "Light casual" || got[2] != "Strong casual" {
		t.Errorf("ToneTitles = %q", got)
	}
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	got := Translate("Hello", "french")
	if got[0].Text != "[Traduit en français] Hello" {
		t.Errorf("literal = %q", got[0].Text)
	}
	if got[1].Text != "[Traduit en français] Hello (Natural style)" {
		t.Errorf("natural = %q", got[1].Text)
	}
	if got[2].Text != "[Traduit en français] Hello (Cultural adaptation)" {
		t.Errorf("cultural = %q", got[2].Text)
	}

	other := Translate("Hello", "klingon")
	if other[0].Text != "[Translated to klingon] Hello" {
		t.Errorf("unknown language = %q", other[0].Text)
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	text := "Machine learning models require careful evaluation. Engineers measure accuracy, latency and robustness of every model before deployment in production systems."
	got := Keywords(text)
	if len(got) == 0 {
		t.Fatal("Keywords returned nothing")
	}
	if len(got) > maxKeywords {
		t.Errorf("len = %d, want <= %d", len(got), maxKeywords)
	}
	seen := map[string]bool{}
	for _, k := range got {
		if len([]rune(k)) <= 3 {
			t.Errorf("keyword %q too short", k)
		}
		if seen[strings.ToLower(k)] {
			t.Errorf("duplicate keyword %q", k)
		}
		seen[strings.ToLower(k)] = true
	}

	if got := Keywords(""); got == nil || len(got) != 0 {
		t.Errorf("Keywords(empty) = %v, want empty non-nil", got)
	}
}

func TestPlainKeywords(t *testing.T) {
	t.Parallel()

	got := plainKeywords("The quick brown foxes jumped over these lazy dogs")
	want := []string{"quick", "brown", "foxes", "jumped", "lazy", "dogs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("plainKeywords = %q, want %q", got, want)
	}
}

func TestHashtags(t *testing.T) {
	t.Parallel()

	got := Hashtags([]string{"machine learning", "data", " #go ", "  ", "one", "two", "three"})
	want := []string{"#machinelearning", "#data", "#go", "#one", "#two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Hashtags = %q, want %q", got, want)
	}
}

func TestWritingPrompt(t *testing.T) {
	t.Parallel()

	first := func(int) int { return 0 }
	if got := WritingPrompt([]string{"dragon"}, first); got != `Write a story starting with "dragon..."` {
		t.Errorf("WritingPrompt = %q", got)
	}
	if got := WritingPrompt(nil, first); got != `Write a story starting with "a strange event..."` {
		t.Errorf("WritingPrompt(nil) = %q", got)
	}
	last := func(n int) int { return n - 1 }
	if got := WritingPrompt([]string{"", "lighthouse"}, last); !strings.Contains(got, "lighthouse") {
		t.Errorf("WritingPrompt = %q, want keyword", got)
	}
	outOfRange := func(n int) int { return n + 5 }
	if got := WritingPrompt([]string{"x"}, outOfRange); !strings.HasPrefix(got, "Write a story") {
		t.Errorf("out-of-range pick should use first template, got %q", got)
	}
}

func TestOriginality_Repetitive(t *testing.T) {
	t.Parallel()

	o := Originality("the cat sat on the mat. the cat sat on the mat. the cat sat on the mat.", 0)
	if o == nil {
		t.Fatal("Originality returned nil")
	}
	if o.Score != 0 || o.RiskLevel != "High" {
		t.Errorf("score=%d risk=%q, want 0 High", o.Score, o.RiskLevel)
	}
	for _, p := range []string{PatternLowDiversity, PatternRepetitive, PatternNearDuplicates} {
		if !slices.Contains(o.SuspiciousPatterns, p) {
			t.Errorf("patterns %q missing %q", o.SuspiciousPatterns, p)
		}
	}
	if o.Recommendations[0] != "Review flagged sections" {
		t.Errorf("recommendations = %q", o.Recommendations)
	}
}

func TestOriginality_Clean(t *testing.T) {
	t.Parallel()

	o := Originality("Quantum physicists rarely agree about interpretations. Meanwhile, gardeners debate compost recipes endlessly.", 0)
	if o.Score != 100 || o.RiskLevel != "Low" {
		t.Errorf("score=%d risk=%q, want 100 Low", o.Score, o.RiskLevel)
	}
	if len(o.SuspiciousPatterns) != 0 {
		t.Errorf("patterns = %q, want none", o.SuspiciousPatterns)
	}
	if !reflect.DeepEqual(o.Recommendations, []string{"Document appears original", "Good vocabulary usage"}) {
		t.Errorf("recommendations = %q", o.Recommendations)
	}
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	st := Statistics("Hello world. This is a test sentence with several words!\n\nSecond paragraph here.")
	if st.Words != 13 || st.Sentences != 3 || st.Paragraphs != 2 {
		t.Errorf("words=%d sentences=%d paragraphs=%d, want 13 3 2", st.Words, st.Sentences, st.Paragraphs)
	}
	if st.Complexity != 23.1 {
		t.Errorf("complexity = %v, want 23.1", st.Complexity)
	}
	if st.ReadingMinutes != 1 {
		t.Errorf("reading minutes = %d, want 1", st.ReadingMinutes)
	}
	if st.ShortSentences != 3 || st.MediumSentences != 0 || st.LongSentences != 0 {
		t.Errorf("buckets = %d/%d/%d, want 3/0/0", st.ShortSentences, st.MediumSentences, st.LongSentences)
	}
	if st.AvgWordsPerSentence != 4.3 {
		t.Errorf("avg words/sentence = %v, want 4.3", st.AvgWordsPerSentence)
	}

	if zero := Statistics("  "); zero != (analysis.Statistics{}) {
		t.Errorf("Statistics(blank) = %+v, want zero", zero)
	}
}
