package heuristic

import (
	"strings"

	"github.com/MrWong99/wordsmith/pkg/analysis"
)

var (
	toFormalLight   = strings.NewReplacer("can't", "cannot")
	toFormal        = strings.NewReplacer("can't", "cannot", "I'm", "I am")
	toCasualLight   = strings.NewReplacer("cannot", "can't")
	toCasual        = strings.NewReplacer("cannot", "can't", "I am", "I'm")
	toneIntensities = [analysis.OptionCount]string{"Light", "Moderate", "Strong"}
)

// AdjustTone rewrites text in three graduated intensities of tone. Unknown
// tones return the text unchanged in every variant. Returns nil for blank
// text.
func AdjustTone(text, tone string) []analysis.Option {
	if isBlank(text) {
		return nil
	}
	if tone == "" {
		tone = analysis.DefaultTone
	}
	var v [analysis.OptionCount]string
	switch strings.ToLower(tone) {
	case "formal":
		v[0] = toFormalLight.Replace(text)
		v[1] = toFormal.Replace(text)
		v[2] = "I would like to formally present the following: " + v[1]
	case "casual":
		v[0] = toCasualLight.Replace(text)
		v[1] = toCasual.Replace(text)
		v[2] = "Hey! " + v[0] + " 😊"
	case "professional":
		v[0] = "Please note: " + text
		v[1] = "I would like to present: " + text
		v[2] = "In a professional capacity, I wish to communicate: " + text
	case "friendly":
		v[0] = "Hi there! " + text
		v[1] = "Hey friend! " + text + " Hope this helps!"
		v[2] = "Hello! 😊 " + text + " Have a great day!"
	default:
		v = [analysis.OptionCount]string{text, text, text}
	}
	titles := ToneTitles(tone)
	out := make([]analysis.Option, analysis.OptionCount)
	for i := range v {
		out[i] = analysis.Option{Index: i + 1, Title: titles[i], Text: v[i]}
	}
	return out
}

// ToneTitles returns the option titles for tone, lightest first.
func ToneTitles(tone string) [analysis.OptionCount]string {
	var out [analysis.OptionCount]string
	for i, level := range toneIntensities {
		out[i] = level + " " + tone
	}
	return out
}
