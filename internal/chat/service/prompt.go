package service

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed system_prompt.txt
var basePrompt string

const defaultBasePrompt = "You are KidsGPT, keep replies friendly."

var promptTemplates = []string{
	"%s Can you think of another example?",
	"Let's explore this: %s What else comes to mind?",
	"%s What do you think about it?",
}

// PromptTemplateCount is the number of templates DecoratePrompt chooses from.
var PromptTemplateCount = len(promptTemplates)

// DecoratePrompt wraps message in the template at index, taken modulo the template count.
func DecoratePrompt(message string, index int) string {
	if index < 0 {
		index = -index
	}
	return fmt.Sprintf(promptTemplates[index%len(promptTemplates)], message)
}

// BuildSystemPrompt starts with an age line, then the base prompt, then the requested tone.
// A nil or non-positive age uses a generic line.
func BuildSystemPrompt(age *int, tone string) string {
	var b strings.Builder

	if age != nil && *age > 0 {
		fmt.Fprintf(&b, "You are talking to a %d-year-old child. ", *age)
	} else {
		b.WriteString("You are talking to a child. ")
	}

	base := strings.TrimSpace(basePrompt)
	if base == "" {
		base = defaultBasePrompt
	}
	b.WriteString(base)

	if tone = strings.TrimSpace(tone); tone != "" {
		fmt.Fprintf(&b, "\nAnswer in a %s tone.", tone)
	}
	return b.String()
}
