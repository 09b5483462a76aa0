package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/wordsmith/internal/heuristic"
	"github.com/MrWong99/wordsmith/internal/resolver"
	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// connect starts a server over in-memory transports and returns a connected
// client session.
func connect(t *testing.T) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(resolver.New(nil, heuristic.New()), "test")

	serverT, clientT := mcpsdk.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	tc, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): content is %T, want *TextContent", name, res.Content[0])
	}
	return tc.Text, res.IsError
}

func TestListTools(t *testing.T) {
	t.Parallel()
	cs := connect(t)

	names := map[string]bool{}
	for tool, err := range cs.Tools(context.Background(), nil) {
		if err != nil {
			t.Fatalf("list tools: %v", err)
		}
		names[tool.Name] = true
	}
	for _, want := range []string{"analyze_text", "text_statistics", "list_operations"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestAnalyzeText(t *testing.T) {
	t.Parallel()
	cs := connect(t)

	text, isErr := callText(t, cs, "analyze_text", map[string]any{
		"operation": "tone",
		"text":      "I can't go.",
		"tone":      "formal",
	})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
	var out analyzeOutput
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Result.Operation != analysis.OpTone {
		t.Errorf("operation = %q, want tone", out.Result.Operation)
	}
	if len(out.Result.Options) != 3 {
		t.Errorf("got %d options, want 3", len(out.Result.Options))
	}
	if out.Notification.Message == "" {
		t.Error("notification is empty")
	}
}

func TestAnalyzeText_UnknownOperation(t *testing.T) {
	t.Parallel()
	cs := connect(t)

	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      "analyze_text",
		Arguments: map[string]any{"operation": "juggle", "text": "hi"},
	})
	if err == nil && !res.IsError {
		t.Fatal("expected a tool error for an unknown operation")
	}
}

func TestTextStatistics(t *testing.T) {
	t.Parallel()
	cs := connect(t)

	text, _ := callText(t, cs, "text_statistics", map[string]any{"text": "One two three. Four five."})
	var stats analysis.Statistics
	if err := json.Unmarshal([]byte(text), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Words != 5 {
		t.Errorf("words = %d, want 5", stats.Words)
	}
}

func TestListOperations(t *testing.T) {
	t.Parallel()
	cs := connect(t)

	text, _ := callText(t, cs, "list_operations", map[string]any{})
	var ops []operationInfo
	if err := json.Unmarshal([]byte(text), &ops); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ops) != len(analysis.Operations()) {
		t.Errorf("got %d operations, want %d", len(ops), len(analysis.Operations()))
	}
}

func TestHandler_StreamableHTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(Handler(NewServer(resolver.New(nil, heuristic.New()), "test")))
	t.Cleanup(srv.Close)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &mcpsdk.StreamableClientTransport{Endpoint: srv.URL}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer cs.Close()

	text, isErr := callText(t, cs, "text_statistics", map[string]any{"text": "Hello world."})
	if isErr {
		t.Fatalf("tool error: %s", text)
	}
}
