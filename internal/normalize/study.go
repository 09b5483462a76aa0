package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

var (
	levels    = []string{analysis.LevelBeginner, analysis.LevelIntermediate, analysis.LevelAdvanced}
	ratings   = []string{analysis.RatingLow, analysis.RatingMedium, analysis.RatingHigh}
	qualities = []string{analysis.QualityPoor, analysis.QualityGood, analysis.QualityExcellent}
)

// band returns the member of allowed matching v case-insensitively, or def.
func band(v gjson.Result, allowed []string, def string) string {
	s := strings.TrimSpace(v.String())
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return def
}

func stringOr(v gjson.Result, def string) string {
	if s := strings.TrimSpace(v.String()); s != "" {
		return s
	}
	return def
}

func research(doc gjson.Result) (*analysis.Research, error) {
	obj, ok := object(doc)
	if !ok {
		return nil, schemaErr("research: expected object")
	}
	abstract := field(obj, "abstract", "summary")
	keyFindings := field(obj, "keyFindings", "findings")
	if !present(abstract) && !keyFindings.IsArray() {
		return nil, schemaErr("research: abstract and key findings both missing")
	}
	return &analysis.Research{
		Abstract:        stringOr(abstract, ""),
		KeyFindings:     nonNil(stringList(keyFindings)),
		Methodology:     stringOr(field(obj, "methodology", "methods"), "Not identified"),
		TechnicalTerms:  nonNil(stringList(field(obj, "technicalTerms", "terms"))),
		Citations:       nonNil(stringList(field(obj, "citations", "references"))),
		Complexity:      band(field(obj, "complexity", "level"), levels, analysis.LevelIntermediate),
		Domain:          stringOr(field(obj, "domain", "field"), "Other"),
		Recommendations: nonNil(stringList(field(obj, "recommendations"))),
	}, nil
}

// studyNotes parses note sections. Sections without a title or content are
// dropped.
func studyNotes(doc gjson.Result) ([]analysis.NoteSection, error) {
	arr, ok := array(doc, "sections", "notes")
	if !ok {
		return nil, schemaErr("expected an array of note sections")
	}
	var out []analysis.NoteSection
	for _, e := range arr.Array() {
		if !e.IsObject() {
			continue
		}
		s := analysis.NoteSection{
			Section: stringOr(field(e, "section", "title", "heading"), ""),
			Content: stringList(field(e, "content", "items", "points")),
		}
		if s.Section == "" || len(s.Content) == 0 {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, schemaErr("no note sections in reply")
	}
	return out, nil
}

var questionKinds = map[string]string{
	"multiplechoice": analysis.QuestionMultipleChoice,
	"mcq":            analysis.QuestionMultipleChoice,
	"choice":         analysis.QuestionMultipleChoice,
	"shortanswer":    analysis.QuestionShortAnswer,
	"short":          analysis.QuestionShortAnswer,
	"open":           analysis.QuestionShortAnswer,
}

// quiz parses quiz questions. The kind is inferred from the presence of
// options when the reply does not name a known one.
func quiz(doc gjson.Result) ([]analysis.QuizQuestion, error) {
	arr, ok := array(doc, "questions", "quiz")
	if !ok {
		return nil, schemaErr("expected an array of questions")
	}
	var out []analysis.QuizQuestion
	for i, e := range arr.Array() {
		if !e.IsObject() {
			return nil, schemaErr("question %d: unexpected %s", i+1, e.Type)
		}
		q := analysis.QuizQuestion{
			Question:    stringOr(field(e, "question", "prompt"), ""),
			Options:     stringList(field(e, "options", "choices")),
			Correct:     stringOr(field(e, "correct", "correctAnswer"), ""),
			Explanation: stringOr(field(e, "explanation"), ""),
			Answer:      stringOr(field(e, "answer"), ""),
		}
		if q.Question == "" {
			return nil, schemaErr("question %d: text missing", i+1)
		}
		q.Type = questionKinds[foldKey(field(e, "type", "kind").String())]
		if q.Type == "" {
			q.Type = analysis.QuestionShortAnswer
			if len(q.Options) > 0 {
				q.Type = analysis.QuestionMultipleChoice
			}
		}
		points, ok, err := number(field(e, "points", "score"), "points")
		if err != nil {
			return nil, err
		}
		if ok && points > 0 {
			q.Points = int(points)
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, schemaErr("no questions in reply")
	}
	return out, nil
}

func codeDocs(doc gjson.Result) (*analysis.CodeDocs, error) {
	obj, ok := object(doc)
	if !ok {
		return nil, schemaErr("code docs: expected object")
	}
	lang := field(obj, "language")
	functions := field(obj, "functions", "methods")
	if !present(lang) && !functions.IsArray() && !present(field(obj, "documentationQuality", "quality")) {
		return nil, schemaErr("code docs: no recognised fields")
	}
	return &analysis.CodeDocs{
		Language:        stringOr(lang, "Not detected"),
		Functions:       nonNil(stringList(functions)),
		Classes:         nonNil(stringList(field(obj, "classes", "types"))),
		APIs:            nonNil(stringList(field(obj, "apis", "endpoints"))),
		Dependencies:    nonNil(stringList(field(obj, "dependencies", "imports"))),
		Complexity:      band(field(obj, "complexity"), ratings, analysis.RatingMedium),
		Quality:         band(field(obj, "documentationQuality", "quality"), qualities, analysis.QualityGood),
		MissingElements: nonNil(stringList(field(obj, "missingElements", "missing"))),
		Suggestions:     nonNil(stringList(field(obj, "suggestions", "recommendations"))),
	}, nil
}

// projectIdeas parses project suggestions. Entries without a title are
// dropped.
func projectIdeas(doc gjson.Result) ([]analysis.ProjectIdea, error) {
	arr, ok := array(doc, "projects", "ideas")
	if !ok {
		return nil, schemaErr("expected an array of project ideas")
	}
	var out []analysis.ProjectIdea
	for _, e := range arr.Array() {
		title := stringOr(field(e, "title", "name"), "")
		if !e.IsObject() || title == "" {
			continue
		}
		out = append(out, analysis.ProjectIdea{
			Title:       title,
			Description: stringOr(field(e, "description", "summary"), ""),
			Difficulty:  band(field(e, "difficulty", "level"), levels, analysis.LevelIntermediate),
			Duration:    stringOr(field(e, "duration", "timeline"), ""),
			Skills:      nonNil(stringList(field(e, "skills"))),
			Tools:       nonNil(stringList(field(e, "tools", "technologies"))),
		})
	}
	if len(out) == 0 {
		return nil, schemaErr("no project ideas in reply")
	}
	return out, nil
}
