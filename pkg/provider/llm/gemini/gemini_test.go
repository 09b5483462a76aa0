package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

func TestBuildRequest(t *testing.T) {
	req := llm.CompletionRequest{
		SystemPrompt: "Reply with JSON.",
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Be terse."},
			{Role: llm.RoleUser, Content: "hello"},
			{Role: llm.RoleAssistant, Content: "hi"},
		},
		Temperature: 0.5,
		MaxTokens:   128,
		JSONMode:    true,
	}
	contents, gc := buildRequest(req)

	if len(contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(contents))
	}
	if contents[0].Role != genai.RoleUser || contents[1].Role != genai.RoleModel {
		t.Errorf("roles = %q, %q", contents[0].Role, contents[1].Role)
	}
	if gc.SystemInstruction == nil || gc.SystemInstruction.Parts[0].Text != "Reply with JSON.\nBe terse." {
		t.Errorf("system instruction = %+v", gc.SystemInstruction)
	}
	if gc.ResponseMIMEType != "application/json" {
		t.Errorf("mime type = %q", gc.ResponseMIMEType)
	}
	if gc.Temperature == nil || *gc.Temperature != 0.5 {
		t.Errorf("temperature = %v", gc.Temperature)
	}
	if gc.MaxOutputTokens != 128 {
		t.Errorf("max output tokens = %d", gc.MaxOutputTokens)
	}

	_, plain := buildRequest(llm.UserPrompt("x"))
	if plain.ResponseMIMEType != "" || plain.SystemInstruction != nil || plain.Temperature != nil {
		t.Errorf("plain config = %+v", plain)
	}
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, "", DefaultPrimaryModel); err == nil {
		t.Error("expected error for empty API key")
	}
	if _, err := New(ctx, "key", ""); err == nil {
		t.Error("expected error for empty model")
	}
	p, err := New(ctx, "key", DefaultBackupModel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Model() != DefaultBackupModel {
		t.Errorf("Model() = %q", p.Model())
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, DefaultPrimaryModel+":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"score\":1}"}]}}],
			"usageMetadata":{"promptTokenCount":4,"candidatesTokenCount":2,"totalTokenCount":6}}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), "key", DefaultPrimaryModel, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := p.Complete(context.Background(), llm.UserPrompt("rate this"))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"score":1}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 6 {
		t.Errorf("total tokens = %d, want 6", resp.Usage.TotalTokens)
	}
}

func TestComplete_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), "key", DefaultPrimaryModel, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Complete(context.Background(), llm.UserPrompt("rate this"))
	var se *llm.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *llm.StatusError", err)
	}
	if se.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", se.Code)
	}
}
