package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips every HTML tag from a plain text field. Entities are
// decoded back so the templates escape the text exactly once.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeText(*s)
	if v == "" {
		return nil
	}
	return &v
}
