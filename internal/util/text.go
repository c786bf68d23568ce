package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reKeyChar = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// CleanText folds non-breaking spaces and runs of whitespace into single
// spaces and trims the result.
func CleanText(input string) string {
	s := strings.ReplaceAll(input, "\u00a0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeKey turns a unit label into a file-name-safe key.
func SanitizeKey(input string) string {
	out := reKeyChar.ReplaceAllString(strings.TrimSpace(input), "_")
	out = strings.Trim(out, "_")
	if out == "" {
		out = "unit"
	}
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
