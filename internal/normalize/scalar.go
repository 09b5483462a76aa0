package normalize

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

var (
	positiveEmotions = map[string]bool{"joy": true, "happiness": true, "excitement": true, "love": true}
	negativeEmotions = map[string]bool{"anger": true, "sadness": true, "fear": true, "disgust": true}

	sentimentLabels = map[string]string{
		"verypositive": analysis.LabelVeryPositive,
		"positive":     analysis.LabelPositive,
		"neutral":      analysis.LabelNeutral,
		"negative":     analysis.LabelNegative,
		"verynegative": analysis.LabelVeryNegative,
	}
	riskLevels = map[string]string{"low": "Low", "medium": "Medium", "high": "High"}
)

func sentiment(doc gjson.Result) (*analysis.Sentiment, error) {
	obj, ok := object(doc)
	if !ok {
		return nil, schemaErr("sentiment: expected object")
	}
	rawScore, ok, err := number(field(obj, "score", "sentimentScore"), "score")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schemaErr("sentiment: score missing")
	}
	score := max(-5, min(5, int(math.Round(rawScore))))

	conf, _, err := number(field(obj, "confidence"), "confidence")
	if err != nil {
		return nil, err
	}

	label := analysis.LabelForScore(score)
	if l, ok := sentimentLabels[foldKey(field(obj, "label", "sentiment").String())]; ok {
		label = l
	}

	emotions := nonNil(stringList(field(obj, "emotions")))
	positive := stringList(field(obj, "positive"))
	negative := stringList(field(obj, "negative"))
	if positive == nil && negative == nil {
		for _, e := range emotions {
			switch {
			case positiveEmotions[strings.ToLower(e)]:
				positive = append(positive, e)
			case negativeEmotions[strings.ToLower(e)]:
				negative = append(negative, e)
			}
		}
	}

	return &analysis.Sentiment{
		Score:       score,
		Comparative: float64(score) / 5,
		Label:       label,
		Confidence:  max(0, min(100, conf)),
		Positive:    nonNil(positive),
		Negative:    nonNil(negative),
		Emotions:    emotions,
		Reasoning:   field(obj, "reasoning", "explanation").String(),
	}, nil
}

func originality(doc gjson.Result) (*analysis.Originality, error) {
	obj, ok := object(doc)
	if !ok {
		return nil, schemaErr("originality: expected object")
	}
	raw, ok, err := number(field(obj, "originalityScore", "score"), "originalityScore")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schemaErr("originality: score missing")
	}
	score := max(0, min(100, int(math.Round(raw))))

	risk := analysis.RiskForScore(score)
	if r, ok := riskLevels[strings.ToLower(strings.TrimSpace(field(obj, "riskLevel", "risk").String()))]; ok {
		risk = r
	}
	return &analysis.Originality{
		RiskLevel:          risk,
		Score:              score,
		SuspiciousPatterns: nonNil(stringList(field(obj, "suspiciousPatterns", "patterns"))),
		Recommendations:    nonNil(stringList(field(obj, "recommendations"))),
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
