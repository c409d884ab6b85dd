package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Strokes are not combining marks, so NFD leaves them alone.
var strokeLetters = map[rune]rune{
	'ł': 'l', 'Ł': 'L',
	'đ': 'd', 'Đ': 'D',
	'ø': 'o', 'Ø': 'O',
}

// Transliterate strips diacritics: "Bułgaria" -> "Bulgaria"
func Transliterate(s string) string {
	t := transform.Chain(
		runes.Map(func(r rune) rune {
			if repl, ok := strokeLetters[r]; ok {
				return repl
			}
			return r
		}),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug lower-cases and transliterates s for use as a URL path segment
func Slug(s string) string {
	s = strings.ToLower(Transliterate(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), "-")
}

// CollapseSpaces replaces runs of whitespace with a single space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleFromSlug turns "sloneczny-brzeg" into "Sloneczny Brzeg"
func TitleFromSlug(slug string) string {
	words := strings.ReplaceAll(slug, "-", " ")
	return cases.Title(language.Polish).String(CollapseSpaces(words))
}

// IsDigits reports whether s is non-empty and made only of decimal digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
