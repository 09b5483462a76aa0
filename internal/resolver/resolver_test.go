package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrWong99/wordsmith/internal/cache"
	"github.com/MrWong99/wordsmith/internal/credential"
	"github.com/MrWong99/wordsmith/internal/gateway"
	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/pkg/analysis"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
	"github.com/MrWong99/wordsmith/pkg/provider/llm/mock"
)

const text = "The launch went well. Our team worked hard for months. Customers are happy with the new release. Support tickets dropped sharply. We can't wait to build the next version."

// fakeModel returns a fixed reply or error and records prompts.
type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	json    []bool
}

func (f *fakeModel) Invoke(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.json = append(f.json, gateway.JSONRequested(ctx))
	return f.reply, f.err
}

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type keyCreds string

func (k keyCreds) Resolve() (string, credential.Source) { return string(k), credential.SourceEnv }

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newEngine() *heuristic.Engine {
	return heuristic.New(heuristic.WithPicker(func(int) int { return 0 }))
}

func TestResolve_ModelSuccess(t *testing.T) {
	t.Parallel()

	m := &fakeModel{reply: `{"score": 3, "label": "Very Positive", "confidence": 88, "emotions": ["joy"], "reasoning": "upbeat"}`}
	r := New(m, newEngine())

	res, n := r.Resolve(context.Background(), analysis.OpSentiment, text, analysis.Params{})
	if res.Source != analysis.SourceAI {
		t.Fatalf("source = %s, want ai", res.Source)
	}
	if res.Sentiment.Score != 3 || res.Sentiment.Label != analysis.LabelVeryPositive {
		t.Errorf("sentiment = %+v", res.Sentiment)
	}
	if n.Severity != analysis.NotifySuccess {
		t.Errorf("notification = %+v", n)
	}
	if !strings.Contains(m.prompts[0], text) {
		t.Error("prompt does not embed the text")
	}
}

func TestResolve_NeverFails(t *testing.T) {
	t.Parallel()

	failures := []error{
		&gateway.ConfigurationError{Err: gateway.ErrNoCredential},
		&gateway.ModelError{Class: gateway.ClassOverloaded, Tier: gateway.TierBackup, Attempts: 3},
		&gateway.ModelError{Class: gateway.ClassInvalidKey, Tier: gateway.TierPrimary, Attempts: 1},
		&gateway.ModelError{Class: gateway.ClassNetworkOrOther, Tier: gateway.TierPrimary, Attempts: 1},
		context.Canceled,
	}
	inputs := []string{"", "   ", "x", text}

	for _, failure := range failures {
		r := New(&fakeModel{err: failure}, newEngine())
		for _, op := range analysis.Operations() {
			for _, in := range inputs {
				res, n := r.Resolve(context.Background(), op, in, analysis.Params{})
				if res.Operation != op || res.Shape != op.Shape() {
					t.Fatalf("%s(%q) with %v: result %+v has wrong op/shape", op, in, failure, res)
				}
				if n.Message == "" {
					t.Fatalf("%s(%q): empty notification", op, in)
				}
				if strings.TrimSpace(in) != "" && res.Shape == analysis.ShapeOptions && len(res.Options) == 0 {
					t.Fatalf("%s(%q): no options on fallback", op, in)
				}
			}
		}
	}
}

func TestResolve_BlankInput(t *testing.T) {
	t.Parallel()

	m := &fakeModel{reply: "{}"}
	r := New(m, newEngine())
	res, n := r.Resolve(context.Background(), analysis.OpSummarize, " \n\t", analysis.Params{})
	if res.Source != analysis.SourceNone || !res.IsEmpty() {
		t.Errorf("result = %+v, want empty", res)
	}
	if n.Severity != analysis.NotifyWarning {
		t.Errorf("severity = %s, want warning", n.Severity)
	}
	if m.calls() != 0 {
		t.Error("model invoked for blank input")
	}
}

func TestResolve_LocalOnlyOperations(t *testing.T) {
	t.Parallel()

	m := &fakeModel{reply: "{}"}
	r := New(m, newEngine())
	for _, op := range []analysis.Operation{analysis.OpLanguage, analysis.OpReadability} {
		res, n := r.Resolve(context.Background(), op, text, analysis.Params{})
		if res.Source != analysis.SourceLocal {
			t.Errorf("%s source = %s, want local", op, res.Source)
		}
		if n.Severity != analysis.NotifyInfo {
			t.Errorf("%s severity = %s, want info", op, n.Severity)
		}
	}
	if m.calls() != 0 {
		t.Error("model invoked for a local-only operation")
	}
}

func TestResolve_FallbackNotifications(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantSeverity string
		wantContains string
	}{
		{"overloaded", &gateway.ModelError{Class: gateway.ClassOverloaded}, analysis.NotifyWarning, "busy"},
		{"invalid key", &gateway.ModelError{Class: gateway.ClassInvalidKey}, analysis.NotifyDanger, "rejected"},
		{"network", &gateway.ModelError{Class: gateway.ClassNetworkOrOther}, analysis.NotifyInfo, "unavailable"},
		{"configuration", &gateway.ConfigurationError{Err: gateway.ErrNoCredential}, analysis.NotifyWarning, "API key"},
	}
	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeModel{err: tt.err}, newEngine())
			res, n := r.Resolve(context.Background(), analysis.OpParaphrase, text, analysis.Params{})
			if res.Source != analysis.SourceLocal {
				t.Errorf("source = %s, want local", res.Source)
			}
			if n.Severity != tt.wantSeverity || !strings.Contains(n.Message, tt.wantContains) {
				t.Errorf("notification = %+v", n)
			}
			if seen[n.Message] {
				t.Errorf("message %q is not distinct", n.Message)
			}
			seen[n.Message] = true
		})
	}
}

func TestResolve_ConfigurationWarnedOnce(t *testing.T) {
	t.Parallel()

	r := New(&fakeModel{err: &gateway.ConfigurationError{Err: gateway.ErrNoCredential}}, newEngine())
	_, first := r.Resolve(context.Background(), analysis.OpKeywords, text, analysis.Params{})
	_, second := r.Resolve(context.Background(), analysis.OpKeywords, text, analysis.Params{})
	if first.Severity != analysis.NotifyWarning {
		t.Errorf("first = %+v, want warning", first)
	}
	if second.Severity != analysis.NotifyInfo {
		t.Errorf("second = %+v, want info", second)
	}

	r.ResetNotices()
	if _, again := r.Resolve(context.Background(), analysis.OpKeywords, text, analysis.Params{}); again.Severity != analysis.NotifyWarning {
		t.Errorf("after ResetNotices = %+v, want warning", again)
	}
}

func TestResolve_SchemaErrorFallsBack(t *testing.T) {
	t.Parallel()

	r := New(&fakeModel{reply: "I cannot help with that."}, newEngine())
	res, _ := r.Resolve(context.Background(), analysis.OpSummarize, text, analysis.Params{})
	if res.Source != analysis.SourceLocal {
		t.Fatalf("source = %s, want local", res.Source)
	}
	if len(res.Options) != analysis.OptionCount {
		t.Errorf("options = %d, want 3", len(res.Options))
	}
}

func TestResolve_InvalidKeyThroughGateway(t *testing.T) {
	t.Parallel()

	p := &mock.Provider{CompleteErr: &llm.StatusError{Code: 400, Status: "INVALID_ARGUMENT", Err: errors.New("API key not valid")}}
	g := gateway.New(keyCreds("key"), func(context.Context, gateway.Tier, string) (llm.Provider, error) {
		return p, nil
	}, gateway.Config{}, gateway.WithSleeper(noSleep))
	r := New(g, newEngine())

	res, n := r.Resolve(context.Background(), analysis.OpSentiment, text, analysis.Params{})
	if len(p.Calls()) != 1 {
		t.Errorf("invocations = %d, want 1", len(p.Calls()))
	}
	if res.Source != analysis.SourceLocal || res.Sentiment == nil {
		t.Fatalf("result = %+v, want non-null local sentiment", res)
	}
	if n.Severity != analysis.NotifyDanger {
		t.Errorf("notification = %+v", n)
	}
}

func TestResolve_OverloadRecoveredOnBackup(t *testing.T) {
	t.Parallel()

	overloaded := &llm.StatusError{Code: 503}
	primary := &mock.Provider{CompleteErr: overloaded}
	backup := &mock.Provider{Script: []mock.Reply{
		{Err: overloaded},
		{Content: `["launch", "team", "release"]`},
	}}
	var delays []time.Duration
	sleeper := func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	g := gateway.New(keyCreds("key"), func(_ context.Context, tier gateway.Tier, _ string) (llm.Provider, error) {
		if tier == gateway.TierPrimary {
			return primary, nil
		}
		return backup, nil
	}, gateway.Config{}, gateway.WithSleeper(sleeper))
	r := New(g, newEngine())

	res, _ := r.Resolve(context.Background(), analysis.OpHashtags, text, analysis.Params{})
	if res.Source != analysis.SourceAI {
		t.Fatalf("source = %s, want ai", res.Source)
	}
	if strings.Join(res.Items, " ") != "#launch #team #release" {
		t.Errorf("hashtags = %v", res.Items)
	}
	if len(primary.Calls())+len(backup.Calls()) != 3 {
		t.Errorf("invocations = %d, want 3", len(primary.Calls())+len(backup.Calls()))
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Errorf("delays = %v, want [1s 2s]", delays)
	}
}

func TestResolve_SentimentFieldParity(t *testing.T) {
	t.Parallel()

	ai := New(&fakeModel{reply: `{"score": -1, "label": "Negative", "confidence": 60, "emotions": ["sadness"]}`}, newEngine())
	local := New(&fakeModel{err: errors.New("offline")}, newEngine())

	a, _ := ai.Resolve(context.Background(), analysis.OpSentiment, "This is a bad, sad day.", analysis.Params{})
	l, _ := local.Resolve(context.Background(), analysis.OpSentiment, "This is a bad, sad day.", analysis.Params{})
	for _, s := range []*analysis.Sentiment{a.Sentiment, l.Sentiment} {
		if s == nil {
			t.Fatal("missing sentiment payload")
		}
		if s.Label == "" || s.Positive == nil || s.Negative == nil {
			t.Errorf("incomplete sentiment %+v", s)
		}
	}
	if a.Source != analysis.SourceAI || l.Source != analysis.SourceLocal {
		t.Errorf("sources = %s, %s", a.Source, l.Source)
	}
}

func TestResolve_CachesModelResults(t *testing.T) {
	t.Parallel()

	m := &fakeModel{reply: `["alpha", "beta"]`}
	c := cache.NewMemory(time.Minute, 10)
	r := New(m, newEngine(), WithCache(c))

	for range 3 {
		res, _ := r.Resolve(context.Background(), analysis.OpKeywords, text, analysis.Params{})
		if res.Source != analysis.SourceAI || len(res.Items) != 2 {
			t.Fatalf("result = %+v", res)
		}
	}
	if m.calls() != 1 {
		t.Errorf("model calls = %d, want 1", m.calls())
	}

	// Local fallbacks are never cached.
	failing := New(&fakeModel{err: errors.New("down")}, newEngine(), WithCache(c))
	_, _ = failing.Resolve(context.Background(), analysis.OpGrammar, text, analysis.Params{})
	if c.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", c.Len())
	}
}

func TestRun_Notifies(t *testing.T) {
	t.Parallel()

	var got []analysis.Notification
	r := New(nil, newEngine(), WithNotifier(func(_ context.Context, n analysis.Notification) {
		got = append(got, n)
	}))
	res := r.Run(context.Background(), analysis.OpTone, "I can't go.", analysis.Params{Tone: "formal"})
	if res.Options[0].Text != "I cannot go." {
		t.Errorf("option 1 = %q", res.Options[0].Text)
	}
	if len(got) != 1 || got[0].Severity != analysis.NotifyInfo {
		t.Errorf("notifications = %+v", got)
	}
}

func TestResolve_UnknownOperation(t *testing.T) {
	t.Parallel()

	res, n := New(nil, nil).Resolve(context.Background(), "ocr", text, analysis.Params{})
	if res.Source != analysis.SourceNone || n.Severity != analysis.NotifyDanger {
		t.Errorf("result = %+v, notification = %+v", res, n)
	}
}

func TestPrompt(t *testing.T) {
	t.Parallel()

	for _, op := range analysis.Operations() {
		p, ok := Prompt(op, "Hello world.", analysis.Params{})
		if ok != op.Remote() {
			t.Errorf("%s: ok = %v, want %v", op, ok, op.Remote())
		}
		if ok && !strings.Contains(p, "Hello world.") && op != analysis.OpWritingPrompt {
			t.Errorf("%s: prompt missing text", op)
		}
	}

	p, _ := Prompt(analysis.OpTone, "x", analysis.Params{Tone: "Casual"})
	if !strings.Contains(p, `"Light casual"`) || !strings.Contains(p, "casual tone") {
		t.Errorf("tone prompt = %s", p)
	}
	p, _ = Prompt(analysis.OpSummarize, "x", analysis.Params{SentenceCount: 2})
	if !strings.Contains(p, "exactly 2 sentences") {
		t.Errorf("summary prompt = %s", p)
	}
	p, _ = Prompt(analysis.OpWritingPrompt, "", analysis.Params{Keywords: []string{"moon", "tide"}})
	if !strings.Contains(p, "moon, tide") {
		t.Errorf("writing prompt = %s", p)
	}
}

func TestResolve_StudyRecords(t *testing.T) {
	t.Parallel()

	const paper = "The TCP protocol handles congestion. See [3] and Smith et al. for details."
	tests := []struct {
		name  string
		op    analysis.Operation
		reply string
		check func(analysis.Result) bool
	}{
		{"research", analysis.OpResearch, `{"abstract": "TCP study", "keyFindings": ["stable"]}`,
			func(r analysis.Result) bool { return r.Research != nil && r.Research.Abstract == "TCP study" }},
		{"study notes", analysis.OpStudyNotes, `[{"section": "Key Concepts", "content": ["TCP"]}]`,
			func(r analysis.Result) bool { return len(r.StudyNotes) == 1 }},
		{"quiz", analysis.OpQuiz, `[{"question": "What is TCP?", "answer": "A protocol"}]`,
			func(r analysis.Result) bool { return len(r.Quiz) == 1 && r.Quiz[0].Answer == "A protocol" }},
		{"code docs", analysis.OpCodeDocs, `{"language": "C", "functions": ["send"]}`,
			func(r analysis.Result) bool { return r.CodeDocs != nil && r.CodeDocs.Language == "C" }},
		{"project ideas", analysis.OpProjectIdeas, `[{"title": "Packet Sniffer"}]`,
			func(r analysis.Result) bool { return len(r.Projects) == 1 && r.Projects[0].Title == "Packet Sniffer" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, n := New(&fakeModel{reply: tt.reply}, newEngine()).Resolve(context.Background(), tt.op, paper, analysis.Params{})
			if res.Source != analysis.SourceAI || res.Shape != analysis.ShapeRecord || !tt.check(res) {
				t.Errorf("model path result = %+v", res)
			}
			if n.Severity != analysis.NotifySuccess {
				t.Errorf("notification = %+v", n)
			}

			res, _ = New(&fakeModel{reply: "no JSON here"}, newEngine()).Resolve(context.Background(), tt.op, paper, analysis.Params{})
			if res.Source != analysis.SourceLocal || res.IsEmpty() {
				t.Errorf("fallback result = %+v", res)
			}
		})
	}
}

func TestResolve_RequestsJSONExceptWritingPrompt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   analysis.Operation
		want bool
	}{
		{analysis.OpSentiment, true},
		{analysis.OpSummarize, true},
		{analysis.OpGrammar, true},
		{analysis.OpKeywords, true},
		{analysis.OpResearch, true},
		{analysis.OpWritingPrompt, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			t.Parallel()
			m := &fakeModel{reply: "{}"}
			New(m, newEngine()).Resolve(context.Background(), tt.op, text, analysis.Params{})
			if len(m.json) != 1 || m.json[0] != tt.want {
				t.Errorf("JSON requested = %v, want [%v]", m.json, tt.want)
			}
		})
	}
}
