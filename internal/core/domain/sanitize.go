package domain

import (
	"regexp"
	"strings"
	"unicode"
)

var markupPattern = regexp.MustCompile(`<[^>]*>?`)

// Sanitize trims surrounding whitespace and strips markup, control characters
// and invalid UTF-8 sequences.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToValidUTF8(s, "")
	s = markupPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	return strings.TrimSpace(s)
}
