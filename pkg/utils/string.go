package utils

import "strings"

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces runs of whitespace, newlines included, with a single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates str to at most maxLength runes, marking the cut with "...".
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}

	return string(runes[:maxLength]) + "..."
}
