package normalize

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

const maxKeywords = 10

var (
	findingKinds = map[string]bool{
		analysis.KindGrammar: true, analysis.KindSpelling: true, analysis.KindPunctuation: true,
		analysis.KindStyle: true, analysis.KindClarity: true, analysis.KindCapitalization: true,
		analysis.KindSpacing: true,
	}
	severities = map[string]string{
		"low": analysis.SeverityLow, "minor": analysis.SeverityLow,
		"medium": analysis.SeverityMedium, "moderate": analysis.SeverityMedium,
		"high": analysis.SeverityHigh, "major": analysis.SeverityHigh, "critical": analysis.SeverityHigh,
	}
)

// options parses an OptionSet. Each element's index is its declared "option"
// field when present, else its position plus one. The set must contain at
// least three options with distinct indices in 1..n; extras beyond the third
// are dropped. Missing or repeated titles are replaced with defaults.
func options(doc gjson.Result, titles []string) ([]analysis.Option, error) {
	arr, ok := array(doc, "options", "variants", "results")
	if !ok {
		return nil, schemaErr("expected an array of options")
	}
	elems := arr.Array()
	if len(elems) < analysis.OptionCount {
		return nil, schemaErr("got %d options, want %d", len(elems), analysis.OptionCount)
	}

	out := make([]analysis.Option, 0, len(elems))
	seen := make(map[int]bool, len(elems))
	for i, e := range elems {
		var o analysis.Option
		switch {
		case e.Type == gjson.String:
			o = analysis.Option{Index: i + 1, Text: strings.TrimSpace(e.Str)}
		case e.IsObject():
			idx, ok, err := number(field(e, "option", "index", "id"), "option")
			if err != nil {
				return nil, err
			}
			o.Index = i + 1
			if ok {
				if idx != math.Trunc(idx) {
					return nil, schemaErr("option index %v is not an integer", idx)
				}
				o.Index = int(idx)
			}
			o.Title = strings.TrimSpace(field(e, "title", "label", "name").String())
			o.Text = strings.TrimSpace(field(e, "text", "content", "summary", "translation").String())
		default:
			return nil, schemaErr("option %d: unexpected %s", i+1, e.Type)
		}
		if o.Text == "" {
			return nil, schemaErr("option %d: text missing", i+1)
		}
		if o.Index < 1 || o.Index > len(elems) {
			return nil, schemaErr("option index %d out of range", o.Index)
		}
		if seen[o.Index] {
			return nil, schemaErr("duplicate option index %d", o.Index)
		}
		seen[o.Index] = true
		out = append(out, o)
	}

	slices.SortFunc(out, func(a, b analysis.Option) int { return a.Index - b.Index })
	out = out[:analysis.OptionCount]

	usedTitles := make(map[string]bool, len(out))
	for i := range out {
		t := out[i].Title
		if t == "" || usedTitles[strings.ToLower(t)] {
			t = uniqueTitle(titles, i, usedTitles)
		}
		usedTitles[strings.ToLower(t)] = true
		out[i].Title = t
	}
	return out, nil
}

func uniqueTitle(titles []string, i int, used map[string]bool) string {
	base := "Option " + strconv.Itoa(i+1)
	if i < len(titles) {
		base = titles[i]
	}
	t := base
	for n := 2; used[strings.ToLower(t)]; n++ {
		t = base + " (" + strconv.Itoa(n) + ")"
	}
	return t
}

// findings parses a grammar report. An empty array is a valid "no issues"
// answer.
func findings(doc gjson.Result) ([]analysis.GrammarFinding, error) {
	arr, ok := array(doc, "issues", "errors", "findings", "suggestions")
	if !ok {
		return nil, schemaErr("expected an array of findings")
	}
	out := []analysis.GrammarFinding{}
	for i, e := range arr.Array() {
		if !e.IsObject() {
			return nil, schemaErr("finding %d: unexpected %s", i+1, e.Type)
		}
		f := analysis.GrammarFinding{
			Kind:       strings.ToLower(strings.TrimSpace(field(e, "type", "kind", "category").String())),
			Message:    strings.TrimSpace(field(e, "message", "description", "explanation").String()),
			Original:   field(e, "original", "text", "span").String(),
			Suggestion: field(e, "suggestion", "replacement", "correction").String(),
			Severity:   severities[strings.ToLower(strings.TrimSpace(field(e, "severity").String()))],
			Position:   -1,
		}
		if f.Message == "" && f.Original == "" {
			return nil, schemaErr("finding %d: message and original both missing", i+1)
		}
		if !findingKinds[f.Kind] {
			f.Kind = analysis.KindGrammar
		}
		if f.Severity == "" {
			f.Severity = analysis.SeverityMedium
		}
		pos, ok, err := number(field(e, "position"), "position")
		if err != nil {
			return nil, err
		}
		if ok && pos >= 0 {
			f.Position = int(pos)
		}
		out = append(out, f)
	}
	return out, nil
}

// keywords parses a keyword list, dropping duplicates and keeping at most
// ten entries.
func keywords(doc gjson.Result) ([]string, error) {
	arr, ok := array(doc, "keywords", "hashtags", "tags")
	if !ok {
		return nil, schemaErr("expected an array of keywords")
	}
	out := []string{}
	seen := map[string]bool{}
	for _, k := range stringList(arr) {
		k = strings.TrimSpace(strings.TrimPrefix(k, "#"))
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, k)
		if len(out) == maxKeywords {
			break
		}
	}
	if len(out) == 0 {
		return nil, schemaErr("no keywords in reply")
	}
	return out, nil
}
