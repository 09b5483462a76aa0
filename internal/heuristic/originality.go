package heuristic

import (
	"math"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

// Pattern messages reported by Originality.
const (
	PatternLongSentences  = "Very long sentences (possible academic copying)"
	PatternLowDiversity   = "Low vocabulary diversity"
	PatternRepetitive     = "Repetitive phrases detected"
	PatternNearDuplicates = "Near-duplicate sentences detected"
)

// DefaultNearDuplicateThreshold is the Jaro-Winkler similarity at which two
// sentences count as near duplicates.
const DefaultNearDuplicateThreshold = 0.92

// maxComparedSentences bounds the pairwise near-duplicate scan.
const maxComparedSentences = 200

var (
	flaggedRecommendations = []string{"Review flagged sections", "Check for proper citations", "Improve vocabulary diversity"}
	cleanRecommendations   = []string{"Document appears original", "Good vocabulary usage"}
)

// Originality estimates how original text is from its vocabulary diversity,
// sentence length, repeated three-word phrases and near-duplicate sentences.
// Returns nil for blank text.
func Originality(text string, nearDuplicate float64) *analysis.Originality {
	if isBlank(text) {
		return nil
	}
	words := fields(text)
	sentences := terminalSegments(text)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	diversity := float64(len(unique)) / float64(len(words)) * 100
	avgSentence := float64(len(words)) / float64(len(sentences))

	score := int(math.Round(diversity * 1.2))
	patterns := []string{}
	if avgSentence > 25 {
		patterns = append(patterns, PatternLongSentences)
		score -= 10
	}
	if diversity < 40 {
		patterns = append(patterns, PatternLowDiversity)
		score -= 15
	}
	if repeatedPhrases(words) {
		patterns = append(patterns, PatternRepetitive)
		score -= 10
	}
	if hasNearDuplicates(sentences, nearDuplicate) {
		patterns = append(patterns, PatternNearDuplicates)
		score -= 10
	}
	score = max(0, min(100, score))

	recs := cleanRecommendations
	if len(patterns) > 0 {
		recs = flaggedRecommendations
	}
	return &analysis.Originality{
		RiskLevel:          analysis.RiskForScore(score),
		Score:              score,
		SuspiciousPatterns: patterns,
		Recommendations:    append([]string(nil), recs...),
	}
}

// repeatedPhrases reports whether more than 10% of the three-word phrases in
// words are repeats.
func repeatedPhrases(words []string) bool {
	if len(words) < 3 {
		return false
	}
	total := len(words) - 2
	seen := make(map[string]struct{}, total)
	for i := 0; i < total; i++ {
		seen[strings.ToLower(strings.Join(words[i:i+3], " "))] = struct{}{}
	}
	return float64(total-len(seen)) > float64(total)*0.1
}

func hasNearDuplicates(sentences []string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultNearDuplicateThreshold
	}
	norm := make([]string, 0, min(len(sentences), maxComparedSentences))
	for _, s := range sentences {
		s = strings.ToLower(strings.Join(strings.Fields(s), " "))
		// Very short fragments match each other too easily.
		if len(strings.Fields(s)) < 4 {
			continue
		}
		norm = append(norm, s)
		if len(norm) == maxComparedSentences {
			break
		}
	}
	for i := range norm {
		for j := i + 1; j < len(norm); j++ {
			if matchr.JaroWinkler(norm[i], norm[j], true) >= threshold {
				return true
			}
		}
	}
	return false
}
