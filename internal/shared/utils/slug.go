package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a title into a URL slug:
// "Getting Started with Go" → "getting-started-with-go"
func GenerateSlug(input string) string {
	// Step 1: strip accents, "Café Déjà Vu" → "Cafe Deja Vu"
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase, whitespace to hyphens
	lower := strings.ToLower(ascii)
	hyphenated := strings.Join(strings.Fields(lower), "-")

	// Step 3: keep only a-z, 0-9 and hyphens
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Step 4: collapse and trim hyphens
	normalized := slugDashes.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// RemoveDiacritics decomposes the input (NFD), drops combining marks and recomposes.
// đ/Đ have no decomposition and are mapped by hand.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}
