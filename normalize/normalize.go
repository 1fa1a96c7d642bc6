// Package normalize folds recipe and ingredient text into comparison keys.
//
// Keys are used for case-insensitive substring and equality checks by the icon
// resolver and the autocomplete engine. Display text is never replaced by its
// key: callers keep the original string and compare keys only.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key for s: NFKC-normalized and lower-cased.
// Lower-casing is language-neutral and never expands letters, so "ß" does not
// equal "ss". Whitespace is preserved so substring positions keep their meaning.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// cases.Caser is stateful; a fresh one per call keeps Fold goroutine-safe.
	return cases.Lower(language.Und).String(norm.NFKC.String(s))
}

// Trim removes surrounding whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Key trims s and folds it.
func Key(s string) string {
	return Fold(Trim(s))
}

// Contains reports whether needle occurs in haystack ignoring case.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Equal reports whether a and b are equal ignoring case.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
