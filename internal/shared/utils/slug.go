package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugMultiHyphen  = regexp.MustCompile(`-+`)
	slugFormat       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// GenerateSlug turns a card name into a URL-safe slug.
// "Anna's Design Studio" -> "annas-design-studio"
func GenerateSlug(input string) string {
	// Lowercase first so the character class below stays simple
	lower := strings.ToLower(input)

	// Spaces become hyphens
	hyphenated := strings.ReplaceAll(lower, " ", "-")

	// Strip everything outside a-z, 0-9 and hyphens
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Collapse runs of hyphens
	normalized := slugMultiHyphen.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase alphanumeric
// segments separated by single hyphens, no leading/trailing hyphen.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > 100 {
		return false
	}
	return slugFormat.MatchString(s)
}
