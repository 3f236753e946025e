package usecase

import (
	"regexp"
	"strings"
)

var whitespaceRunRegex = regexp.MustCompile(`\s+`)

// Normalize prepares a medicine name for comparison: lowercase, trimmed,
// with internal whitespace runs collapsed to single spaces.
// It is pure and idempotent, and must be applied identically to extracted
// candidate names and to stored inventory names before any comparison.
func Normalize(s string) string {
	result := strings.ToLower(s)
	result = whitespaceRunRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
