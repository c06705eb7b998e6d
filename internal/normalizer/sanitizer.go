package normalizer

import "regexp"

// TextSanitizer removes markup tags from free text.
type TextSanitizer struct {
	tagPattern *regexp.Regexp
}

// NewTextSanitizer creates a sanitizer that strips anything between an
// opening and the nearest closing angle bracket on the same line.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		tagPattern: regexp.MustCompile(`<.*?>`),
	}
}

// Strip removes all tags from text.
func (s *TextSanitizer) Strip(text string) string {
	return s.tagPattern.ReplaceAllString(text, "")
}
