package search

import (
	"slices"
	"strings"

	"follohjelp/pkg/types"
)

const (
	DefaultLimit = 30

	nameWeight     = 3
	locationWeight = 2
	categoryWeight = 1
)

type Result struct {
	Provider *types.Provider `json:"provider"`
	Score    int             `json:"score"`
}

// Ranker scores providers against a free-text query. Providers must already
// carry resolved category and location display names.
type Ranker struct {
	limit int
}

func NewRanker(limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ranker{limit: limit}
}

// Score returns 3 for a name hit, 2 for a location hit and 1 for a category
// hit, summed.
func Score(provider *types.Provider, normalizedQuery, slugQuery string) int {
	score := 0
	if Matches(provider.Name, normalizedQuery, slugQuery) {
		score += nameWeight
	}
	if Matches(provider.Location, normalizedQuery, slugQuery) {
		score += locationWeight
	}
	for _, category := range provider.Categories {
		if Matches(category, normalizedQuery, slugQuery) {
			score += categoryWeight
			break
		}
	}
	return score
}

// Rank returns matching providers by score, then by name in Norwegian
// collation, capped at the ranker's limit. A blank query matches nothing.
func (r *Ranker) Rank(query string, providers []*types.Provider) []Result {
	results := make([]Result, 0)

	query = strings.TrimSpace(query)
	if query == "" {
		return results
	}

	normalizedQuery := Normalize(query)
	slugQuery := Slugify(query)

	for _, p := range providers {
		if score := Score(p, normalizedQuery, slugQuery); score > 0 {
			results = append(results, Result{Provider: p, Score: score})
		}
	}

	collator := NewCollator()
	slices.SortStableFunc(results, func(a, b Result) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return collator.CompareString(a.Provider.Name, b.Provider.Name)
	})

	if len(results) > r.limit {
		results = results[:r.limit]
	}
	return results
}
