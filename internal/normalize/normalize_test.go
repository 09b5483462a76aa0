package normalize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

func TestStripMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1]\n```", "[1]"},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := stripMarkdown(tt.in); got != tt.want {
			t.Errorf("stripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModel_Sentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    analysis.Sentiment
		wantErr bool
	}{
		{
			name: "canonical",
			raw:  `{"score": 4, "label": "Very Positive", "confidence": 92, "emotions": ["joy", "Excitement", "surprise"], "reasoning": "upbeat"}`,
			want: analysis.Sentiment{
				Score: 4, Comparative: 0.8, Label: analysis.LabelVeryPositive, Confidence: 92,
				Positive: []string{"joy", "Excitement"}, Negative: []string{},
				Emotions: []string{"joy", "Excitement", "surprise"}, Reasoning: "upbeat",
			},
		},
		{
			name: "numeric strings and fenced",
			raw:  "```json\n{\"score\": \"-2\", \"confidence\": \"75%\", \"emotions\": [\"anger\"]}\n```",
			want: analysis.Sentiment{
				Score: -2, Comparative: -0.4, Label: analysis.LabelNegative, Confidence: 75,
				Positive: []string{}, Negative: []string{"anger"}, Emotions: []string{"anger"},
			},
		},
		{
			name: "label canonicalised and score clamped",
			raw:  `Here you go: {"Score": 9, "label": "very_positive"} hope it helps`,
			want: analysis.Sentiment{
				Score: 5, Comparative: 1, Label: analysis.LabelVeryPositive,
				Positive: []string{}, Negative: []string{}, Emotions: []string{},
			},
		},
		{name: "missing score", raw: `{"label": "Positive"}`, wantErr: true},
		{name: "malformed score", raw: `{"score": "lots"}`, wantErr: true},
		{name: "malformed confidence", raw: `{"score": 1, "confidence": true}`, wantErr: true},
		{name: "not json", raw: `I think it is positive.`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := Model(analysis.OpSentiment, tt.raw, analysis.Params{})
			if tt.wantErr {
				if !errors.Is(err, ErrSchema) {
					t.Fatalf("err = %v, want ErrSchema", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Source != analysis.SourceAI || r.Shape != analysis.ShapeScalar {
				t.Errorf("source=%s shape=%s", r.Source, r.Shape)
			}
			if !reflect.DeepEqual(*r.Sentiment, tt.want) {
				t.Errorf("sentiment =\n%+v\nwant\n%+v", *r.Sentiment, tt.want)
			}
		})
	}
}

// Both paths must expose the same sentiment field set so consumers can treat
// them interchangeably.
func TestSentimentFieldParity(t *testing.T) {
	t.Parallel()

	ai, err := Model(analysis.OpSentiment, `{"score": 2, "label": "Positive", "confidence": 80}`, analysis.Params{})
	if err != nil {
		t.Fatalf("Model: %v", err)
	}
	local := Align(heuristic.New().Compute(analysis.OpSentiment, "What a good day", analysis.Params{}))

	for name, s := range map[string]*analysis.Sentiment{"ai": ai.Sentiment, "local": local.Sentiment} {
		if s == nil {
			t.Fatalf("%s sentiment is nil", name)
		}
		if s.Label == "" {
			t.Errorf("%s label empty", name)
		}
		if s.Positive == nil || s.Negative == nil || s.Emotions == nil {
			t.Errorf("%s has nil term lists: %+v", name, s)
		}
	}
}

func TestModel_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		op        analysis.Operation
		params    analysis.Params
		raw       string
		want      []analysis.Option
		wantErrIs error
	}{
		{
			name: "declared indices reorder",
			op:   analysis.OpSummarize,
			raw:  `[{"option": 3, "title": "C", "text": "three"}, {"option": 1, "title": "A", "text": "one"}, {"option": "2", "title": "B", "text": "two"}]`,
			want: []analysis.Option{{Index: 1, Title: "A", Text: "one"}, {Index: 2, Title: "B", Text: "two"}, {Index: 3, Title: "C", Text: "three"}},
		},
		{
			name: "positional indices and default titles",
			op:   analysis.OpParaphrase,
			raw:  `{"paraphrases": [{"text": "a"}, {"text": "b"}, {"text": "c"}]}`,
			want: []analysis.Option{{Index: 1, Title: "Simple Paraphrase", Text: "a"}, {Index: 2, Title: "Formal Paraphrase", Text: "b"}, {Index: 3, Title: "Creative Paraphrase", Text: "c"}},
		},
		{
			name:   "string elements and duplicate titles",
			op:     analysis.OpTone,
			params: analysis.Params{Tone: "casual"},
			raw:    `["x", "y", "z"]`,
			want:   []analysis.Option{{Index: 1, Title: "Light casual", Text: "x"}, {Index: 2, Title: "Moderate casual", Text: "y"}, {Index: 3, Title: "Strong casual", Text: "z"}},
		},
		{
			name: "repeated titles replaced",
			op:   analysis.OpTranslate,
			raw:  `[{"title": "Same", "text": "a"}, {"title": "same", "text": "b"}, {"title": "Same", "text": "c"}]`,
			want: []analysis.Option{{Index: 1, Title: "Same", Text: "a"}, {Index: 2, Title: "Natural Translation", Text: "b"}, {Index: 3, Title: "Cultural Translation", Text: "c"}},
		},
		{
			name: "extra options truncated",
			op:   analysis.OpSummarize,
			raw:  `[{"text": "1"}, {"text": "2"}, {"text": "3"}, {"text": "4"}]`,
			want: []analysis.Option{{Index: 1, Title: "Concise Summary", Text: "1"}, {Index: 2, Title: "Detailed Summary", Text: "2"}, {Index: 3, Title: "Key Points Summary", Text: "3"}},
		},
		{name: "too few", op: analysis.OpSummarize, raw: `[{"text": "1"}, {"text": "2"}]`, wantErrIs: ErrSchema},
		{name: "duplicate index", op: analysis.OpSummarize, raw: `[{"option":1,"text":"a"},{"option":1,"text":"b"},{"option":2,"text":"c"}]`, wantErrIs: ErrSchema},
		{name: "index out of range", op: analysis.OpSummarize, raw: `[{"option":0,"text":"a"},{"option":1,"text":"b"},{"option":2,"text":"c"}]`, wantErrIs: ErrSchema},
		{name: "malformed index", op: analysis.OpSummarize, raw: `[{"option":"first","text":"a"},{"text":"b"},{"text":"c"}]`, wantErrIs: ErrSchema},
		{name: "missing text", op: analysis.OpSummarize, raw: `[{"title":"a"},{"text":"b"},{"text":"c"}]`, wantErrIs: ErrSchema},
		{name: "object without array", op: analysis.OpSummarize, raw: `{"summary": "one"}`, wantErrIs: ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := Model(tt.op, tt.raw, tt.params)
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("err = %v, want %v", err, tt.wantErrIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(r.Options, tt.want) {
				t.Errorf("options =\n%+v\nwant\n%+v", r.Options, tt.want)
			}
		})
	}
}

func TestModel_Grammar(t *testing.T) {
	t.Parallel()

	raw := `[
		{"type": "Spelling", "message": "Misspelled word", "original": "teh", "suggestion": "the", "severity": "HIGH"},
		{"type": "wordiness", "message": "Too long", "original": "in order to", "severity": "whatever", "position": "2"}
	]`
	r, err := Model(analysis.OpGrammar, raw, analysis.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []analysis.GrammarFinding{
		{Kind: analysis.KindSpelling, Message: "Misspelled word", Original: "teh", Suggestion: "the", Severity: analysis.SeverityHigh, Position: -1},
		{Kind: analysis.KindGrammar, Message: "Too long", Original: "in order to", Severity: analysis.SeverityMedium, Position: 2},
	}
	if !reflect.DeepEqual(r.Findings, want) {
		t.Errorf("findings =\n%+v\nwant\n%+v", r.Findings, want)
	}

	empty, err := Model(analysis.OpGrammar, `[]`, analysis.Params{})
	if err != nil {
		t.Fatalf("empty report: %v", err)
	}
	if empty.Findings == nil || len(empty.Findings) != 0 || empty.IsEmpty() {
		t.Errorf("empty report = %+v, want valid no-issue result", empty)
	}

	if _, err := Model(analysis.OpGrammar, `["bad"]`, analysis.Params{}); !errors.Is(err, ErrSchema) {
		t.Errorf("non-object finding err = %v, want ErrSchema", err)
	}
}

func TestModel_KeywordsAndHashtags(t *testing.T) {
	t.Parallel()

	raw := `{"keywords": ["Machine Learning", "data", "DATA", 42, {"x": 1}, "#ai"]}`
	r, err := Model(analysis.OpKeywords, raw, analysis.Params{})
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if want := []string{"Machine Learning", "data", "42", "ai"}; !reflect.DeepEqual(r.Items, want) {
		t.Errorf("keywords = %q, want %q", r.Items, want)
	}

	h, err := Model(analysis.OpHashtags, raw, analysis.Params{})
	if err != nil {
		t.Fatalf("hashtags: %v", err)
	}
	if want := []string{"#MachineLearning", "#data", "#42", "#ai"}; !reflect.DeepEqual(h.Items, want) {
		t.Errorf("hashtags = %q, want %q", h.Items, want)
	}

	many := `["a1a1","b2b2","c3c3","d4d4","e5e5","f6f6","g7g7","h8h8","i9i9","j0j0","k1k1"]`
	r, err = Model(analysis.OpKeywords, many, analysis.Params{})
	if err != nil {
		t.Fatalf("many: %v", err)
	}
	if len(r.Items) != 10 {
		t.Errorf("len = %d, want 10", len(r.Items))
	}

	if _, err := Model(analysis.OpKeywords, `[]`, analysis.Params{}); !errors.Is(err, ErrSchema) {
		t.Errorf("empty keywords err = %v, want ErrSchema", err)
	}
}

func TestModel_Originality(t *testing.T) {
	t.Parallel()

	r, err := Model(analysis.OpOriginality, `{"riskLevel": "medium", "originalityScore": "72", "suspiciousPatterns": ["x"]}`, analysis.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := analysis.Originality{RiskLevel: "Medium", Score: 72, SuspiciousPatterns: []string{"x"}, Recommendations: []string{}}
	if !reflect.DeepEqual(*r.Originality, want) {
		t.Errorf("originality = %+v, want %+v", *r.Originality, want)
	}

	r, err = Model(analysis.OpOriginality, `{"score": 30}`, analysis.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Originality.RiskLevel != "High" {
		t.Errorf("derived risk = %q, want High", r.Originality.RiskLevel)
	}
}

func TestModel_WritingPrompt(t *testing.T) {
	t.Parallel()

	r, err := Model(analysis.OpWritingPrompt, "  \"Write about a lighthouse keeper.\"\n", analysis.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text != "Write about a lighthouse keeper." {
		t.Errorf("text = %q", r.Text)
	}
	if _, err := Model(analysis.OpWritingPrompt, "   ", analysis.Params{}); !errors.Is(err, ErrSchema) {
		t.Errorf("blank prompt err = %v, want ErrSchema", err)
	}
}

func TestModel_LocalOnlyOperation(t *testing.T) {
	t.Parallel()

	if _, err := Model(analysis.OpReadability, `{"score": 50}`, analysis.Params{}); !errors.Is(err, ErrSchema) {
		t.Errorf("err = %v, want ErrSchema", err)
	}
}

func TestAlign(t *testing.T) {
	t.Parallel()

	r := Align(analysis.Result{Operation: analysis.OpGrammar})
	if r.Shape != analysis.ShapeFindings || r.Source != analysis.SourceLocal || r.Findings == nil {
		t.Errorf("Align grammar = %+v", r)
	}

	r = Align(analysis.Result{Operation: analysis.OpSummarize, Options: []analysis.Option{{Text: "a"}, {Text: "b"}}})
	if r.Options[0].Index != 1 || r.Options[1].Index != 2 {
		t.Errorf("Align options = %+v", r.Options)
	}

	none := Align(analysis.Empty(analysis.OpKeywords))
	if none.Items != nil {
		t.Errorf("Align must not populate empty results: %+v", none)
	}
}

func TestDefaultTitles(t *testing.T) {
	t.Parallel()

	got := DefaultTitles(analysis.OpTone, analysis.Params{})
	if !reflect.DeepEqual(got, []string{"Light formal", "Moderate formal", "Strong formal"}) {
		t.Errorf("tone titles = %q", got)
	}
	got[0] = "mutated"
	if DefaultTitles(analysis.OpSummarize, analysis.Params{})[0] != "Concise Summary" {
		t.Error("summary titles wrong")
	}
	if DefaultTitles(analysis.OpSentiment, analysis.Params{}) != nil {
		t.Error("scalar op should have no titles")
	}
}
