package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// GenerateSlug builds a URL- and filename-safe slug from free text.
// Non-ASCII characters that have no transliteration are dropped, so an
// all-Arabic title yields an empty slug and callers fall back to an id.
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	hyphenated = strings.ReplaceAll(hyphenated, "_", "-")

	cleaned := slugInvalid.ReplaceAllString(hyphenated, "")
	normalized := slugHyphens.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}
