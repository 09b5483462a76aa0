package heuristic

import "fmt"

const genericPromptSubject = "a strange event"

var promptTemplates = []string{
	"Write a story starting with \"%s...\"",
	"Write a short poem that explores %s.",
	"Describe a world where %s changes everything.",
	"Write a letter to a stranger about %s.",
	"Tell the story of a character who encounters %s for the first time.",
}

// WritingPrompt picks one of the prompt templates using pick and fills it
// with the first keyword, or a generic subject when there are none.
func WritingPrompt(keywords []string, pick func(n int) int) string {
	subject := genericPromptSubject
	for _, k := range keywords {
		if !isBlank(k) {
			subject = k
			break
		}
	}
	i := 0
	if pick != nil {
		i = pick(len(promptTemplates))
	}
	if i < 0 || i >= len(promptTemplates) {
		i = 0
	}
	return fmt.Sprintf(promptTemplates[i], subject)
}
