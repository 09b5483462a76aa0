// Package mcp exposes the analysis operations as Model Context Protocol tools
// so that MCP clients (editors, agents) can call them.
//
// Three tools are registered:
//
//   - analyze_text resolves one operation, with the same fallback behaviour
//     as the HTTP API. The notification is returned alongside the result.
//   - text_statistics computes the writing statistics dashboard.
//   - list_operations describes every supported operation.
//
// [Handler] serves the tools over the streamable HTTP transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

const serverName = "wordsmith"

// Runner resolves operations. *resolver.Resolver satisfies it.
type Runner interface {
	Resolve(ctx context.Context, op analysis.Operation, text string, params analysis.Params) (analysis.Result, analysis.Notification)
	Statistics(text string) analysis.Statistics
}

// AnalyzeInput is the argument object of the analyze_text tool.
type AnalyzeInput struct {
	Operation      string   `json:"operation" jsonschema:"operation name, for example sentiment, summarize, grammar or translate"`
	Text           string   `json:"text" jsonschema:"the text to analyze"`
	Tone           string   `json:"tone,omitempty" jsonschema:"target tone for the tone operation: formal, casual, professional or friendly"`
	TargetLanguage string   `json:"targetLanguage,omitempty" jsonschema:"target language for the translate operation, in English (e.g. spanish)"`
	SentenceCount  int      `json:"sentenceCount,omitempty" jsonschema:"summary length in sentences"`
	Keywords       []string `json:"keywords,omitempty" jsonschema:"seed keywords for the writing_prompt operation"`
}

// StatisticsInput is the argument object of the text_statistics tool.
type StatisticsInput struct {
	Text string `json:"text" jsonschema:"the text to measure"`
}

type analyzeOutput struct {
	Result       analysis.Result       `json:"result"`
	Notification analysis.Notification `json:"notification"`
}

type operationInfo struct {
	Name   analysis.Operation `json:"name"`
	Title  string             `json:"title"`
	Shape  analysis.Shape     `json:"shape"`
	Remote bool               `json:"remote"`
}

// NewServer builds an MCP server whose tools are backed by runner.
func NewServer(runner Runner, version string) *mcpsdk.Server {
	srv := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, nil)
	t := &tools{runner: runner}

	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "analyze_text",
		Description: "Run one text analysis or transformation operation. Falls back to local analysis when the AI model is unavailable.",
	}, t.analyze)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "text_statistics",
		Description: "Count words, sentences and paragraphs and estimate reading time.",
	}, t.statistics)
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        "list_operations",
		Description: "List the operations accepted by analyze_text.",
	}, t.operations)

	return srv
}

// Handler serves srv over the streamable HTTP transport.
func Handler(srv *mcpsdk.Server) http.Handler {
	return mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server { return srv }, nil)
}

type tools struct {
	runner Runner
}

func (t *tools) analyze(ctx context.Context, _ *mcpsdk.CallToolRequest, in AnalyzeInput) (*mcpsdk.CallToolResult, any, error) {
	op, err := analysis.ParseOperation(in.Operation)
	if err != nil {
		return nil, nil, err
	}
	res, note := t.runner.Resolve(ctx, op, in.Text, analysis.Params{
		Tone:           in.Tone,
		TargetLanguage: in.TargetLanguage,
		SentenceCount:  in.SentenceCount,
		Keywords:       in.Keywords,
	})
	return textResult(analyzeOutput{Result: res, Notification: note})
}

func (t *tools) statistics(_ context.Context, _ *mcpsdk.CallToolRequest, in StatisticsInput) (*mcpsdk.CallToolResult, any, error) {
	return textResult(t.runner.Statistics(in.Text))
}

func (t *tools) operations(context.Context, *mcpsdk.CallToolRequest, struct{}) (*mcpsdk.CallToolResult, any, error) {
	ops := analysis.Operations()
	out := make([]operationInfo, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationInfo{Name: op, Title: op.Title(), Shape: op.Shape(), Remote: op.Remote()})
	}
	return textResult(out)
}

// textResult encodes v as the single text content of a tool result.
func textResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp: encode result: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}
