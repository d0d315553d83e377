package engine

import "strings"

// fillTemplate substitutes the {question} and {content} placeholders in the
// prompt template.
func fillTemplate(template, question, content string) string {
	return strings.NewReplacer(
		"{question}", question,
		"{content}", content,
	).Replace(template)
}
