package search

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// x/text has no Bokmål tailoring and falls back to root order for "nb".
// Nynorsk carries the same alphabet: z < æ < ø < å.
var norwegian = language.MustParse("nn")

// NewCollator returns a collator in Norwegian alphabetical order. Collators
// keep internal buffers, so callers should not share one across goroutines.
func NewCollator() *collate.Collator {
	return collate.New(norwegian)
}
