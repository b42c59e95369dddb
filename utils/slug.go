package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxSlugLength = 120

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	slugSeps     = regexp.MustCompile(`[\s-]+`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Slugify turns a display name into a URL-safe identifier:
// "Simple Chess: Deluxe Édition" -> "simple-chess-deluxe-edition".
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, name)
	if err != nil {
		ascii = name
	}

	s := strings.ToLower(ascii)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeps.ReplaceAllString(strings.TrimSpace(s), "-")
	s = strings.Trim(s, "-_")

	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-_")
	}

	return s
}

// IsSlug reports whether s only contains letters, digits, hyphens and underscores.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
