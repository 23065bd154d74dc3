// Package search holds the text normalization used for every comparison in
// the directory and the free-text provider ranker built on it.
package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no Unicode decomposition but should still fold to ASCII.
var letterFolds = strings.NewReplacer(
	"ø", "o",
	"æ", "ae",
	"œ", "oe",
	"ß", "ss",
	"đ", "d",
	"ł", "l",
	"þ", "th",
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize folds diacritics and case and collapses whitespace, so that
// "RØRLEGGER", "Rørlegger" and "rorlegger" compare equal.
func Normalize(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}

	folded = letterFolds.Replace(strings.ToLower(folded))
	return strings.Join(strings.Fields(folded), " ")
}

// Slugify returns the URL-safe form of value. It is idempotent.
func Slugify(value string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(Normalize(value), "-"), "-")
}

// Matches reports whether candidate contains the query in either its slug or
// its normalized form. An empty slug query only uses the normalized test.
func Matches(candidate, normalizedQuery, slugQuery string) bool {
	if candidate == "" {
		return false
	}
	if slugQuery != "" && strings.Contains(Slugify(candidate), slugQuery) {
		return true
	}
	return normalizedQuery != "" && strings.Contains(Normalize(candidate), normalizedQuery)
}
