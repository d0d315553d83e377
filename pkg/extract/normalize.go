package extract

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize cleans extracted text: runs of whitespace collapse to a single
// space, the literal ". ," artifact is removed, doubled periods collapse,
// embedded newlines and the reserved '#' marker are stripped, and the
// result is trimmed. Normalize is idempotent: applying it to already
// normalized text returns the text unchanged.
func Normalize(s string) string {
	// Each pass can expose new artifacts (e.g. "..." collapses to ".."),
	// so iterate to a fixed point. Input length bounds the pass count.
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, ". ,", "")
	s = strings.ReplaceAll(s, "..", ".")
	s = strings.ReplaceAll(s, ". .", ".")
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "#", "")
	return strings.TrimSpace(s)
}
